// Package templates holds the HTML components rendered by the web server.
package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

const pageStyle = `body{font-family:system-ui,sans-serif;max-width:44rem;margin:2rem auto;padding:0 1rem;color:#1f2937}
h1{font-size:1.5rem}code{background:#f3f4f6;padding:0 .25rem}
.cols{columns:2;font-family:monospace}.alert{border:1px solid #fca5a5;background:#fef2f2;padding:.75rem;border-radius:.25rem}
form{margin:1.5rem 0;display:flex;gap:.5rem;align-items:center}`

// UploadPage renders the upload form. columns are the required CSV
// columns; maxSize is the upload limit in bytes.
func UploadPage(columns []string, maxSize int64) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>habitcheck</title><style>`)
		b.WriteString(pageStyle)
		b.WriteString(`</style></head><body><h1>habitcheck</h1>`)
		b.WriteString(`<p>Upload a habit-tracking CSV to validate it against the habit schema.</p>`)

		b.WriteString(`<form method="post" action="/api/validate" enctype="multipart/form-data">`)
		b.WriteString(`<input type="file" name="file" accept=".csv,text/csv" required>`)
		b.WriteString(`<button type="submit">Validate</button>`)
		b.WriteString(`<button type="submit" formaction="/api/normalize">Download normalized</button>`)
		b.WriteString(`</form>`)

		fmt.Fprintf(&b, `<p>Maximum file size: %s.</p>`, templ.EscapeString(formatSize(maxSize)))

		b.WriteString(`<h2>Required columns</h2><ul class="cols">`)
		for _, c := range columns {
			b.WriteString(`<li>`)
			b.WriteString(templ.EscapeString(c))
			b.WriteString(`</li>`)
		}
		b.WriteString(`</ul></body></html>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

// ErrorAlert renders an error message with its suggested action and code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div class="alert" role="alert"><strong>`)
		b.WriteString(templ.EscapeString(message))
		b.WriteString(`</strong>`)
		if action != "" {
			b.WriteString(`<p>`)
			b.WriteString(templ.EscapeString(action))
			b.WriteString(`</p>`)
		}
		b.WriteString(`<small>Code: `)
		b.WriteString(templ.EscapeString(code))
		b.WriteString(`</small></div>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func formatSize(n int64) string {
	const mib = 1 << 20
	if n >= mib && n%mib == 0 {
		return fmt.Sprintf("%d MiB", n/mib)
	}
	if n >= 1024 && n%1024 == 0 {
		return fmt.Sprintf("%d KiB", n/1024)
	}
	return fmt.Sprintf("%d bytes", n)
}
