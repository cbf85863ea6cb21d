package server

import "html/template"

const indexHTML = `<!DOCTYPE html>
<html>
<head>
    <title>Cat Tracker</title>
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { margin: 0; font-family: system-ui, sans-serif; background: #14141c; color: #eee; }
        .app { max-width: 1100px; margin: 0 auto; padding: 16px; }
        .header { display: flex; justify-content: space-between; align-items: center; }
        .title { font-size: 1.4em; font-weight: 600; }
        .panel { background: #1d1d28; border-radius: 8px; padding: 14px; margin-top: 14px; }
        .panel h2 { margin: 0 0 10px; font-size: 1.05em; color: #9ad; }
        img.stream { width: 100%; height: auto; display: block; background: #000; border-radius: 4px; }
        .stats { display: flex; gap: 24px; }
        .stat-value { font-size: 1.8em; font-weight: 700; color: #2ecc71; }
        .stat-label { font-size: 0.8em; color: #999; }
        table { width: 100%; border-collapse: collapse; font-size: 0.9em; }
        td, th { padding: 6px 8px; border-bottom: 1px solid #2a2a38; text-align: left; }
        a { color: #9ad; }
    </style>
</head>
<body>
    <div class="app">
        <div class="header">
            <div class="title">&#128049; Cat Tracker</div>
            <a href="/gallery">Gallery</a>
        </div>
        <div class="panel">
            <h2>Live Feed</h2>
            <img class="stream" src="/video" alt="Live camera stream">
        </div>
        <div class="panel">
            <h2>Stats</h2>
            <div class="stats">
                <div><div class="stat-value" id="cat-count">0</div><div class="stat-label">cats detected</div></div>
                <div><div class="stat-value" id="event-count">0</div><div class="stat-label">recent events</div></div>
            </div>
        </div>
        <div class="panel">
            <h2>Recent Events</h2>
            <table>
                <thead><tr><th>Time</th><th>Cats</th><th>Snapshot</th></tr></thead>
                <tbody id="events"></tbody>
            </table>
        </div>
    </div>
    <script>
        function render(stats) {
            document.getElementById('cat-count').textContent = stats.cat_count;
            document.getElementById('event-count').textContent = stats.events.length;
            const rows = stats.events.slice().reverse().map(function (e) {
                return '<tr><td>' + e.timestamp + '</td><td>' + e.count +
                    '</td><td><a href="/captures/' + e.filename + '">' + e.filename + '</a></td></tr>';
            });
            document.getElementById('events').innerHTML = rows.join('');
        }
        function refresh() {
            fetch('/stats').then(function (r) { return r.json(); }).then(render);
        }
        refresh();
        setInterval(refresh, 5000);
        // Live push: refresh immediately when a new event arrives.
        try {
            const proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
            const ws = new WebSocket(proto + location.host + '/ws');
            ws.onmessage = refresh;
        } catch (e) { /* polling still works */ }
    </script>
</body>
</html>
`

var galleryTmpl = template.Must(template.New("gallery").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Cat Tracker - Gallery</title>
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { margin: 0; font-family: system-ui, sans-serif; background: #14141c; color: #eee; }
        .app { max-width: 1100px; margin: 0 auto; padding: 16px; }
        .header { display: flex; justify-content: space-between; align-items: center; }
        .title { font-size: 1.4em; font-weight: 600; }
        .grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(240px, 1fr)); gap: 14px; margin-top: 14px; }
        .card { background: #1d1d28; border-radius: 8px; overflow: hidden; }
        .card img { width: 100%; height: 160px; object-fit: cover; display: block; background: #000; }
        .card .meta { padding: 8px 10px; font-size: 0.85em; color: #bbb; }
        .card form { margin: 0; padding: 0 10px 10px; }
        button { background: #c0392b; color: #fff; border: 0; border-radius: 4px; padding: 5px 10px; cursor: pointer; }
        a { color: #9ad; }
        .empty { margin-top: 24px; color: #888; }
    </style>
</head>
<body>
    <div class="app">
        <div class="header">
            <div class="title">&#128049; Gallery &mdash; {{.CatCount}} cats detected</div>
            <a href="/">Dashboard</a>
        </div>
        {{if .Events}}
        <div class="grid">
            {{range .Events}}
            <div class="card">
                <a href="/captures/{{.Filename}}"><img src="/captures/{{.Filename}}" alt="{{.Filename}}"></a>
                <div class="meta">{{.Timestamp}} &middot; {{.Count}} cat(s)</div>
                <form method="POST" action="/delete_snapshot">
                    <input type="hidden" name="filename" value="{{.Filename}}">
                    <button type="submit">Delete</button>
                </form>
            </div>
            {{end}}
        </div>
        {{else}}
        <p class="empty">No snapshots yet. They will appear here as soon as a cat shows up.</p>
        {{end}}
    </div>
</body>
</html>
`))
