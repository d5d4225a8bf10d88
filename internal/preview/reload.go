package preview

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// LiveReloadPath is where browsers open the live reload websocket.
const LiveReloadPath = "/__livereload"

const reloadScript = `(function () {
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "` + LiveReloadPath + `");
  ws.onmessage = function (e) {
    try {
      if (JSON.parse(e.data).type === "reload") { location.reload(); }
    } catch (_) {}
  };
})();`

// InjectReloadScript appends the live reload client to the document body.
func InjectReloadScript(doc []byte) ([]byte, error) {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	body := findElement(root, atom.Body)
	if body == nil {
		return doc, nil
	}

	script := &html.Node{Type: html.ElementNode, Data: "script", DataAtom: atom.Script}
	script.AppendChild(&html.Node{Type: html.TextNode, Data: reloadScript})
	body.AppendChild(script)

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return nil, fmt.Errorf("rendering html: %w", err)
	}
	return buf.Bytes(), nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// bufferedResponse holds a response so HTML bodies can be rewritten before
// they reach the client.
type bufferedResponse struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newBufferedResponse() *bufferedResponse {
	return &bufferedResponse{header: make(http.Header), status: http.StatusOK}
}

func (b *bufferedResponse) Header() http.Header         { return b.header }
func (b *bufferedResponse) Write(p []byte) (int, error) { return b.body.Write(p) }
func (b *bufferedResponse) WriteHeader(code int)        { b.status = code }

// injectLiveReload rewrites successful HTML responses of next to carry the
// reload script. Other responses pass through untouched.
func injectLiveReload(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Byte ranges of a rewritten page would not line up with the file.
		r.Header.Del("Range")
		r.Header.Del("If-Range")

		buf := newBufferedResponse()
		next.ServeHTTP(buf, r)

		body := buf.body.Bytes()
		if buf.status == http.StatusOK && isHTML(buf.header.Get("Content-Type")) && r.Method != http.MethodHead {
			if injected, err := InjectReloadScript(body); err == nil {
				body = injected
			}
		}

		for k, v := range buf.header {
			w.Header()[k] = v
		}
		if r.Method != http.MethodHead && buf.status != http.StatusNotModified {
			w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		}
		w.WriteHeader(buf.status)
		_, _ = w.Write(body)
	})
}

func isHTML(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(contentType), "text/html")
}
