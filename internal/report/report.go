package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"github.com/contactkeval/option-greeks/internal/greeks"
)

// Row is one evaluated option: the market state and its sensitivities.
type Row struct {
	greeks.Params
	greeks.Greeks
}

// Rows evaluates every requested right against one memoized state.
func Rows(st greeks.State, rights []greeks.Right, daysPerYear float64) ([]Row, error) {
	rows := make([]Row, 0, len(rights))
	for _, r := range rights {
		g, err := st.Greeks(r, daysPerYear)
		if err != nil {
			return nil, err
		}
		rows = append(rows, Row{Params: st.Params(), Greeks: g})
	}
	return rows, nil
}

var headers = []string{"right", "spot", "strike", "t", "rate", "div", "vol", "d1", "d2", "price", "delta", "gamma", "theta", "vega", "rho"}

// Writer renders rows with a fixed number of decimal places.
type Writer struct {
	precision int32
}

// NewWriter returns a Writer rounding to precision decimal places.
func NewWriter(precision int) *Writer {
	return &Writer{precision: int32(precision)}
}

// Write renders rows in format, one of "table", "json" or "csv".
func (w *Writer) Write(out io.Writer, format string, rows []Row) error {
	switch format {
	case "", "table":
		return w.WriteTable(out, rows)
	case "json":
		return w.WriteJSON(out, rows)
	case "csv":
		return w.WriteCSV(out, rows)
	}
	return fmt.Errorf("unknown report format %q", format)
}

// EncodeJSON renders rounded rows as indented JSON. Rows holding an
// overflowed (non-finite) value cannot be encoded and return an error.
func (w *Writer) EncodeJSON(rows []Row) ([]byte, error) {
	rounded := make([]Row, len(rows))
	for i, r := range rows {
		rounded[i] = w.round(r)
	}
	b, err := json.MarshalIndent(rounded, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// WriteJSON writes EncodeJSON output to out. Nothing is written on error.
func (w *Writer) WriteJSON(out io.Writer, rows []Row) error {
	b, err := w.EncodeJSON(rows)
	if err != nil {
		return err
	}
	_, err = out.Write(b)
	return err
}

// WriteCSV writes a header line followed by one record per row.
func (w *Writer) WriteCSV(out io.Writer, rows []Row) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(headers); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(w.record(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTable renders rows as an aligned text table.
func (w *Writer) WriteTable(out io.Writer, rows []Row) error {
	table := tablewriter.NewWriter(out)
	table.SetHeader(headers)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetAutoFormatHeaders(true)
	for _, r := range rows {
		table.Append(w.record(r))
	}
	table.Render()
	return nil
}

func (w *Writer) record(r Row) []string {
	return []string{
		r.Right.String(),
		w.format(r.S0), w.format(r.X), w.format(r.T), w.format(r.R), w.format(r.Q), w.format(r.Sigma),
		w.format(r.D1), w.format(r.D2),
		w.format(r.Price), w.format(r.Delta), w.format(r.Gamma), w.format(r.Theta), w.format(r.Vega), w.format(r.Rho),
	}
}

// format rounds half away from zero; overflowed values print as +Inf/-Inf.
func (w *Writer) format(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(w.precision)
}

func (w *Writer) roundFloat(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	return decimal.NewFromFloat(v).Round(w.precision).InexactFloat64()
}

func (w *Writer) round(r Row) Row {
	g := r.Greeks
	for _, f := range []*float64{&g.D1, &g.D2, &g.Price, &g.Delta, &g.Gamma, &g.Theta, &g.Vega, &g.Rho} {
		*f = w.roundFloat(*f)
	}
	return Row{Params: r.Params, Greeks: g}
}
