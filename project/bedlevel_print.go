package project

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/flosch/pongo2/v5"
)

type PrintMode int

const (
	// Column headed table, unprobed points as a run of '='.
	PRINT_HUMAN PrintMode = iota
	// measured_z = [ ... ]; array, unprobed points as NAN. Byte exact.
	PRINT_MACHINE
)

// Print_2d_array writes an sx by sy table of values(x, y) with precision
// decimals. Rows are Y, columns are X.
func Print_2d_array(w io.Writer, sx, sy, precision int, values func(x, y int) float64, mode PrintMode) error {
	out := bufio.NewWriter(w)
	if mode == PRINT_MACHINE {
		out.WriteString("measured_z = [\n")
	} else {
		for x := 0; x < sx; x++ {
			pad := 2
			if x < 10 {
				pad = 3
			}
			out.WriteString(strings.Repeat(" ", precision+pad))
			out.WriteString(strconv.Itoa(x))
		}
		out.WriteByte('\n')
	}

	for y := 0; y < sy; y++ {
		if mode == PRINT_MACHINE {
			out.WriteString(" [")
		} else {
			if y < 10 {
				out.WriteByte(' ')
			}
			out.WriteString(strconv.Itoa(y))
		}
		for x := 0; x < sx; x++ {
			out.WriteByte(' ')
			offset := values(x, y)
			switch {
			case !math.IsNaN(offset):
				if offset == 0 {
					offset = 0 // drop the sign of -0
				}
				if offset >= 0 {
					out.WriteByte('+')
				}
				out.WriteString(strconv.FormatFloat(offset, 'f', precision, 64))
			case mode == PRINT_MACHINE:
				out.WriteString(strings.Repeat(" ", precision))
				out.WriteString("NAN")
			default:
				out.WriteByte(' ')
				out.WriteString(strings.Repeat("=", precision+2))
			}
			if mode == PRINT_MACHINE && x < sx-1 {
				out.WriteByte(',')
			}
		}
		if mode == PRINT_MACHINE {
			out.WriteString(" ]")
			if y < sy-1 {
				out.WriteByte(',')
			}
		}
		out.WriteByte('\n')
	}

	if mode == PRINT_MACHINE {
		out.WriteString("];")
	}
	out.WriteByte('\n')
	return out.Flush()
}

var reportHeader = pongo2.Must(pongo2.FromString(
	`Bed Leveling: {{ strategy }} {{ points_x }}x{{ points_y }} {{ state }}
{% if fade_height %}Fade height: {{ fade_height|floatformat:2 }}mm
{% endif %}Probed: {{ valid }}/{{ total }}
{% if has_range %}Z range: {{ z_min|floatformat:3 }} to {{ z_max|floatformat:3 }}, mean {{ z_mean|floatformat:3 }}
{% endif %}`))

// Report writes a summary header followed by the human mesh table.
func (self *LevelingContext) Report(w io.Writer, precision int) error {
	mesh := self.strategy.Mesh()
	px, py := mesh.Points()
	lo, hi, hasRange := mesh.Z_range()
	mean, valid := mesh.Mean()
	state := "inactive"
	if self.active {
		state = "active"
	}
	err := reportHeader.ExecuteWriter(pongo2.Context{
		"strategy":    self.strategy.Kind().String(),
		"points_x":    px,
		"points_y":    py,
		"state":       state,
		"fade_height": self.fadeHeight,
		"valid":       valid,
		"total":       px * py,
		"has_range":   hasRange,
		"z_min":       lo,
		"z_max":       hi,
		"z_mean":      mean,
	}, w)
	if err != nil {
		return err
	}
	return Print_2d_array(w, px, py, precision, mesh.Get, PRINT_HUMAN)
}

// Print_mesh writes the mesh in the given mode.
func (self *LevelingContext) Print_mesh(w io.Writer, precision int, mode PrintMode) error {
	mesh := self.strategy.Mesh()
	px, py := mesh.Points()
	return Print_2d_array(w, px, py, precision, mesh.Get, mode)
}
