package responseformat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/vmihailenco/msgpack/v5"
)

// Supported encodings
const (
	FormatJSON    = "json"
	FormatMsgPack = "msgpack"
)

// Formatter handles encoding and writing responses in JSON or MessagePack format
type Formatter struct{}

// NewFormatter creates a new response formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

// WriteResponse writes the response in the appropriate format based on the query parameter.
// JSON is the default format. MessagePack is used when format=msgpack is specified.
// The body is encoded before the status is sent; if encoding fails the client gets a
// 500 and the encoding error is returned.
func (f *Formatter) WriteResponse(w http.ResponseWriter, req *http.Request, status int, data any) error {
	// Always set CORS header
	w.Header().Set("Access-Control-Allow-Origin", "*")

	format := FormatJSON
	if req.URL.Query().Get("format") == FormatMsgPack {
		format = FormatMsgPack
	}

	var buf bytes.Buffer
	if err := f.Encode(&buf, format, data); err != nil {
		w.Header().Set("Content-Type", ContentType(FormatJSON))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "failed to encode response"})
		return fmt.Errorf("error encoding %s response: %w", format, err)
	}

	w.Header().Set("Content-Type", ContentType(format))
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteError writes {"error": message} with the given status
func (f *Formatter) WriteError(w http.ResponseWriter, req *http.Request, status int, message string) error {
	return f.WriteResponse(w, req, status, map[string]string{"error": message})
}

// Encode writes data to w in the named format
func (f *Formatter) Encode(w io.Writer, format string, data any) error {
	switch format {
	case FormatJSON, "":
		return json.NewEncoder(w).Encode(data)
	case FormatMsgPack:
		encoder := msgpack.NewEncoder(w)
		encoder.SetCustomStructTag("json") // Use json tags for MessagePack
		return encoder.Encode(data)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// ContentType returns the MIME type for a format
func ContentType(format string) string {
	if format == FormatMsgPack {
		return "application/x-msgpack"
	}
	return "application/json"
}
