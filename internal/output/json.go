package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/genomenotebook/genomenotebook/internal/browser"
)

// FrameWriter writes browser frames as JSON documents.
type FrameWriter struct {
	enc *json.Encoder
}

// NewFrameWriter creates a frame writer. indent enables pretty printing.
func NewFrameWriter(w io.Writer, indent bool) *FrameWriter {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return &FrameWriter{enc: enc}
}

// Write writes one frame followed by a newline.
func (fw *FrameWriter) Write(f browser.Frame) error {
	if err := fw.enc.Encode(f); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	return nil
}
