package httpapi

import "net/http"

// handleUI serves a minimal static catalog browser; its search box issues
// client-side fetches against /catalog/search rather than doing any
// server-side rendering.
func (s *Server) handleUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(uiPage))
}

const uiPage = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>moniker catalog</title>
  <style>
    body { font-family: system-ui, sans-serif; margin: 2rem; }
    #results { margin-top: 1rem; }
    .node { padding: 0.25rem 0; border-bottom: 1px solid #eee; }
  </style>
</head>
<body>
  <h1>Catalog Browser</h1>
  <input id="q" placeholder="search paths, names, tags..." style="width: 24rem;">
  <button onclick="search()">Search</button>
  <div id="results"></div>
  <script>
    async function search() {
      const q = document.getElementById('q').value;
      const res = await fetch('/catalog/search?q=' + encodeURIComponent(q));
      const items = await res.json();
      const el = document.getElementById('results');
      el.innerHTML = '';
      for (const item of items) {
        const div = document.createElement('div');
        div.className = 'node';
        div.textContent = item.path + (item.display_name ? ' — ' + item.display_name : '');
        el.appendChild(div);
      }
    }
  </script>
</body>
</html>
`
