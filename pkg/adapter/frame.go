package adapter

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gopkg.in/yaml.v3"
)

// NA is the marker for missing cells in text records.
const NA = "NA"

// FrameFromRecords builds a dataset from text records whose first row is the
// header. Column types are detected unless listed in types. A header without
// rows yields an empty dataset that keeps the column names.
func FrameFromRecords(records [][]string, types map[string]series.Type) (dataframe.DataFrame, error) {
	if len(records) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("no header row")
	}
	if len(records) == 1 {
		cols := make([]series.Series, 0, len(records[0]))
		for _, name := range records[0] {
			t, ok := types[name]
			if !ok {
				t = series.String
			}
			cols = append(cols, series.New([]string{}, t, name))
		}
		df := dataframe.New(cols...)
		return df, df.Err
	}

	df := dataframe.LoadRecords(records,
		dataframe.DetectTypes(true),
		dataframe.HasHeader(true),
		dataframe.WithTypes(types),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, df.Err
	}
	return df, nil
}

// ScanFrame reads all rows into a dataset. SQL NULL becomes a missing cell.
// Columns whose driver values are numeric or boolean keep that type; text
// columns are type-detected. convert, when not nil, maps driver-specific
// values before they are formatted.
func ScanFrame(rows *sql.Rows, convert func(any) any) (dataframe.DataFrame, error) {
	names, err := rows.Columns()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to read columns: %w", err)
	}

	records := [][]string{names}
	types := make(map[string]series.Type)
	dest := make([]any, len(names))
	ptrs := make([]any, len(names))
	for i := range dest {
		ptrs[i] = &dest[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("failed to scan row: %w", err)
		}
		record := make([]string, len(names))
		for i, v := range dest {
			if convert != nil {
				v = convert(v)
			}
			record[i] = formatValue(v)
			if t, ok := valueType(v); ok {
				// a float anywhere in the column wins over ints
				if prev, seen := types[names[i]]; !seen || prev == series.Int && t == series.Float {
					types[names[i]] = t
				}
			}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("error iterating rows: %w", err)
	}

	return FrameFromRecords(records, types)
}

// Records renders df as text records with a header row. Floats use the
// shortest representation that still reads back as a float and missing
// cells are NA.
func Records(df dataframe.DataFrame) [][]string {
	names := df.Names()
	cols := make([]series.Series, len(names))
	for j, name := range names {
		cols[j] = df.Col(name)
	}

	records := make([][]string, 0, df.Nrow()+1)
	records = append(records, names)
	for i := 0; i < df.Nrow(); i++ {
		record := make([]string, len(cols))
		for j, s := range cols {
			record[j] = formatValue(Cell(s, i))
		}
		records = append(records, record)
	}
	return records
}

// Row is one dataset row. It marshals to a JSON or YAML object whose keys
// follow the column order.
type Row struct {
	Names  []string
	Values []any
}

// Rows renders df as one Row per dataset row, with nil for missing cells.
func Rows(df dataframe.DataFrame) []Row {
	names := df.Names()
	cols := make([]series.Series, len(names))
	for j, name := range names {
		cols[j] = df.Col(name)
	}

	out := make([]Row, df.Nrow())
	for i := range out {
		values := make([]any, len(cols))
		for j, s := range cols {
			values[j] = Cell(s, i)
		}
		out[i] = Row{Names: names, Values: values}
	}
	return out
}

// MarshalJSON writes the row as an object in column order. Whole floats keep
// a decimal point.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.Names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		var val []byte
		if f, ok := r.Values[i].(float64); ok && !math.IsInf(f, 0) && !math.IsNaN(f) {
			val = []byte(formatFloat(f, 64))
		} else if val, err = json.Marshal(r.Values[i]); err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML writes the row as a mapping in column order.
func (r Row) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for i, name := range r.Names {
		var val yaml.Node
		if err := val.Encode(r.Values[i]); err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}, &val)
	}
	return node, nil
}

// ReadJSONRecords reads an array of JSON objects into text records with a
// header row. Columns keep the order in which their keys first appear, null
// and absent keys become NA.
func ReadJSONRecords(r io.Reader) ([][]string, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}

	var (
		names []string
		index = make(map[string]int)
		rows  []map[int]string
	)
	for dec.More() {
		if err := expectDelim(dec, '{'); err != nil {
			return nil, err
		}
		row := make(map[int]string)
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, _ := tok.(string)
			var raw any
			if err := dec.Decode(&raw); err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			j, ok := index[key]
			if !ok {
				j = len(names)
				index[key] = j
				names = append(names, key)
			}
			row[j] = jsonText(raw)
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows")
	}

	records := make([][]string, 0, len(rows)+1)
	records = append(records, names)
	for _, row := range rows {
		record := make([]string, len(names))
		for j := range record {
			v, ok := row[j]
			if !ok {
				v = NA
			}
			record[j] = v
		}
		records = append(records, record)
	}
	return records, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func jsonText(v any) string {
	switch x := v.(type) {
	case nil:
		return NA
	case json.Number:
		return x.String()
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}

// Cell returns the i-th element of s as a driver-friendly value:
// int64, float64, string, bool, or nil when missing.
func Cell(s series.Series, i int) any {
	e := s.Elem(i)
	if e.IsNA() {
		return nil
	}
	switch s.Type() {
	case series.Int:
		v, err := e.Int()
		if err != nil {
			return nil
		}
		return int64(v)
	case series.Float:
		v := e.Float()
		if math.IsNaN(v) {
			return nil
		}
		return v
	case series.Bool:
		v, err := e.Bool()
		if err != nil {
			return nil
		}
		return v
	default:
		return e.String()
	}
}

// floater is implemented by driver decimal types.
type floater interface {
	Float64() float64
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return NA
	case []byte:
		return string(x)
	case string:
		return x
	case float64:
		if math.IsNaN(x) {
			return NA
		}
		return formatFloat(x, 64)
	case float32:
		return formatFloat(float64(x), 32)
	case floater:
		return formatValue(x.Float64())
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(x)
	}
}

// formatFloat writes f in its shortest form and appends ".0" to whole values
// so they are detected as floats when read back.
func formatFloat(f float64, bitSize int) string {
	s := strconv.FormatFloat(f, 'g', -1, bitSize)
	if !strings.ContainsAny(s, ".eEIN") {
		s += ".0"
	}
	return s
}

func valueType(v any) (series.Type, bool) {
	switch v.(type) {
	case float64, float32, floater:
		return series.Float, true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return series.Int, true
	case bool:
		return series.Bool, true
	default:
		return "", false
	}
}
