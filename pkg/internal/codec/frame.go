package codec

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// cell is a float that round-trips NaN as JSON null, the way pandas writes
// missing values.
type cell float64

func (c cell) MarshalJSON() ([]byte, error) {
	f := float64(c)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

func (c *cell) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*c = cell(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*c = cell(f)
	return nil
}

// frame is a numeric table in split orientation.
type frame struct {
	Columns []int    `json:"columns"`
	Index   []int    `json:"index"`
	Data    [][]cell `json:"data"`
}

// intFrame is a split-orientation table of integers.
type intFrame struct {
	Columns []int   `json:"columns"`
	Index   []int   `json:"index"`
	Data    [][]int `json:"data"`
}

// extrasFrame holds free-form metadata as one row keyed by column names.
type extrasFrame struct {
	Columns []interface{}   `json:"columns"`
	Index   []int           `json:"index"`
	Data    [][]interface{} `json:"data"`
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// columnsFrame lays out equally long series side by side: row i holds
// sample i of every series.
func columnsFrame(series [][]float64, rows int) frame {
	f := frame{Columns: seq(len(series)), Index: seq(rows), Data: make([][]cell, rows)}
	for i := 0; i < rows; i++ {
		row := make([]cell, len(series))
		for j, s := range series {
			row[j] = cell(s[i])
		}
		f.Data[i] = row
	}
	return f
}

// series splits a frame back into its columns.
func (f frame) series() ([][]float64, error) {
	cols := len(f.Columns)
	out := make([][]float64, cols)
	for j := range out {
		out[j] = make([]float64, len(f.Data))
	}
	for i, row := range f.Data {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrInvalidSnapshot, i, len(row), cols)
		}
		for j, v := range row {
			out[j][i] = float64(v)
		}
	}
	return out, nil
}

func firingFrame(firing [][]uint8, units int) intFrame {
	f := intFrame{Columns: seq(units), Index: seq(len(firing)), Data: make([][]int, len(firing))}
	for i, row := range firing {
		r := make([]int, len(row))
		for j, v := range row {
			r[j] = int(v)
		}
		f.Data[i] = r
	}
	return f
}

func (f intFrame) firing() [][]uint8 {
	out := make([][]uint8, len(f.Data))
	for i, row := range f.Data {
		r := make([]uint8, len(row))
		for j, v := range row {
			if v != 0 {
				r[j] = 1
			}
		}
		out[i] = r
	}
	return out
}

func newExtrasFrame(extras map[string]string) extrasFrame {
	f := extrasFrame{Columns: []interface{}{}, Index: []int{}, Data: [][]interface{}{}}
	if len(extras) == 0 {
		return f
	}
	keys := make([]string, 0, len(extras))
	for k := range extras {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	row := make([]interface{}, len(keys))
	for i, k := range keys {
		f.Columns = append(f.Columns, k)
		row[i] = extras[k]
	}
	f.Index = []int{0}
	f.Data = [][]interface{}{row}
	return f
}

func (f extrasFrame) extras() map[string]string {
	out := make(map[string]string, len(f.Columns))
	if len(f.Data) == 0 {
		return out
	}
	for i, c := range f.Columns {
		if i >= len(f.Data[0]) {
			break
		}
		k := fmt.Sprint(c)
		switch v := f.Data[0][i].(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = v
		default:
			out[k] = fmt.Sprint(v)
		}
	}
	return out
}
