package mouse

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// description is the parsed content of a mouse description file.
//
// The format is line-oriented text with space-delimited fields, in tile
// units and degrees:
//
//	# comment
//	body <radius>
//	wheels <base> <wheel-radius> <max-speed-rad-s>
//	sensor <forward-offset> <left-offset> <angle-deg> <range>
//
// Exactly one body line and one wheels line are required; sensor lines are
// optional and may repeat.
type description struct {
	bodyRadius    float64
	wheelBase     float64
	wheelRadius   float64
	maxWheelSpeed float64
	sensors       []Sensor
}

func parseDescription(path string) (description, error) {
	f, err := os.Open(path)
	if err != nil {
		return description{}, fmt.Errorf("opening mouse description: %w", err)
	}
	defer f.Close()

	var desc description
	var haveBody, haveWheels bool

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "body":
			if haveBody {
				return description{}, parseErr(path, lineNo, "duplicate body line")
			}
			values, err := parseFloats(fields[1:], 1)
			if err != nil {
				return description{}, parseErr(path, lineNo, err.Error())
			}
			if values[0] <= 0 || values[0] >= 0.5 {
				return description{}, parseErr(path, lineNo, "body radius must be in (0, 0.5) tiles")
			}
			desc.bodyRadius = values[0]
			haveBody = true

		case "wheels":
			if haveWheels {
				return description{}, parseErr(path, lineNo, "duplicate wheels line")
			}
			values, err := parseFloats(fields[1:], 3)
			if err != nil {
				return description{}, parseErr(path, lineNo, err.Error())
			}
			if values[0] <= 0 || values[1] <= 0 || values[2] <= 0 {
				return description{}, parseErr(path, lineNo, "wheel base, radius, and max speed must be positive")
			}
			desc.wheelBase = values[0]
			desc.wheelRadius = values[1]
			desc.maxWheelSpeed = values[2]
			haveWheels = true

		case "sensor":
			values, err := parseFloats(fields[1:], 4)
			if err != nil {
				return description{}, parseErr(path, lineNo, err.Error())
			}
			if values[3] <= 0 {
				return description{}, parseErr(path, lineNo, "sensor range must be positive")
			}
			desc.sensors = append(desc.sensors, Sensor{
				OffsetX: values[0],
				OffsetY: values[1],
				Angle:   values[2] * math.Pi / 180,
				Range:   values[3],
			})

		default:
			return description{}, parseErr(path, lineNo, fmt.Sprintf("unknown directive %q", fields[0]))
		}
	}
	if err := scanner.Err(); err != nil {
		return description{}, fmt.Errorf("reading mouse description %q: %w", path, err)
	}

	if !haveBody {
		return description{}, fmt.Errorf("mouse description %q: missing body line", path)
	}
	if !haveWheels {
		return description{}, fmt.Errorf("mouse description %q: missing wheels line", path)
	}
	return desc, nil
}

func parseFloats(fields []string, want int) ([]float64, error) {
	if len(fields) != want {
		return nil, fmt.Errorf("expected %d numeric fields, got %d", want, len(fields))
	}
	values := make([]float64, want)
	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("bad numeric field %q", field)
		}
		values[i] = v
	}
	return values, nil
}

func parseErr(path string, line int, msg string) error {
	return fmt.Errorf("mouse description %q line %d: %s", path, line, msg)
}
