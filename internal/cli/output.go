package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alexanderramin/buildtrack/internal/api"
	"github.com/alexanderramin/buildtrack/internal/cli/formatter"
	"github.com/alexanderramin/buildtrack/internal/domain"
	"github.com/spf13/cobra"
)

// printResponse writes the response body as indented JSON. A body that is
// not valid JSON is written unchanged.
func printResponse(w io.Writer, resp *api.Response) error {
	if resp == nil || len(resp.Body) == 0 {
		_, err := fmt.Fprintln(w, formatter.Dim(fmt.Sprintf("(%d, empty body)", statusOf(resp))))
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, resp.Body, "", "  "); err != nil {
		_, err = fmt.Fprintln(w, string(resp.Body))
		return err
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

func statusOf(resp *api.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

// printRecordTable renders a list payload as a table of opaque records.
func printRecordTable(w io.Writer, resp *api.Response) error {
	records, err := decodeList[domain.Record](resp)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, formatter.Dim("No records."))
		return err
	}
	_, err = io.WriteString(w, recordTable(records, 0, 40))
	return err
}

// recordTable renders records with at most maxCols columns (0 for all).
func recordTable(records []domain.Record, maxCols, maxWidth int) string {
	keys := domain.UnionKeys(records)
	if maxCols > 0 && len(keys) > maxCols {
		keys = keys[:maxCols]
	}
	headers := make([]string, len(keys))
	for i, k := range keys {
		headers[i] = strings.ToUpper(k)
	}
	rows := make([][]string, len(records))
	for i, r := range records {
		row := make([]string, len(keys))
		for j, k := range keys {
			row[j] = r.Field(k)
		}
		rows[i] = row
	}
	return formatter.RenderTableMax(headers, rows, maxWidth)
}

// decodeList decodes a list payload. Besides a bare JSON array it accepts
// an object wrapping the array under "data".
func decodeList[T any](resp *api.Response) ([]T, error) {
	if resp == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil, nil
	}
	body := bytes.TrimSpace(resp.Body)
	if body[0] == '{' {
		var wrapped struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return nil, fmt.Errorf("decoding list: %w", err)
		}
		if len(wrapped.Data) == 0 {
			return nil, fmt.Errorf("decoding list: expected an array, got an object")
		}
		body = wrapped.Data
	}
	var out []T
	if err := decodeJSON(body, &out); err != nil {
		return nil, fmt.Errorf("decoding list: %w", err)
	}
	return out, nil
}

// decodeOne decodes a single object, unwrapping an envelope of the form
// {"data": {...}} when that is the only key.
func decodeOne[T any](resp *api.Response) (T, error) {
	var out T
	if resp == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return out, nil
	}
	body := bytes.TrimSpace(resp.Body)
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope) == 1 {
		if data, ok := envelope["data"]; ok && len(bytes.TrimSpace(data)) > 0 && bytes.TrimSpace(data)[0] == '{' {
			body = data
		}
	}
	if err := decodeJSON(body, &out); err != nil {
		return out, fmt.Errorf("decoding response: %w", err)
	}
	return out, nil
}

// decodeJSON unmarshals a single JSON value. Numbers inside opaque values
// stay json.Number so large ids keep every digit.
func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}

// readBody returns the JSON request body from --data or --file ("-" reads stdin).
func readBody(cmd *cobra.Command, data, file string) (json.RawMessage, error) {
	var raw []byte
	switch {
	case data != "" && file != "":
		return nil, fmt.Errorf("use either --data or --file, not both")
	case data != "":
		raw = []byte(data)
	case file == "-":
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		raw = b
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		raw = b
	default:
		return nil, fmt.Errorf("a request body is required: pass --data '<json>' or --file path")
	}
	raw = bytes.TrimSpace(raw)
	if !json.Valid(raw) {
		return nil, fmt.Errorf("request body is not valid JSON")
	}
	return json.RawMessage(raw), nil
}

func addBodyFlags(cmd *cobra.Command, data, file *string) {
	cmd.Flags().StringVarP(data, "data", "d", "", "JSON request body")
	cmd.Flags().StringVarP(file, "file", "f", "", "read the JSON request body from a file (- for stdin)")
}
