package viewserver

import "html/template"

var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.View.Interface}} · wgdash</title>
<style>
body{background:#0b1220;color:#cbd5e1;font:13px ui-monospace,monospace;margin:16px}
.up{color:#4ade80}.deg{color:#facc15}.down{color:#f87171}
pre{white-space:pre-wrap}
button{background:#1f2a3a;color:#cbd5e1;border:0;padding:4px 10px;margin-right:6px}
</style>
</head>
<body>
<h1 class="{{.View.ConnectionClass}}">{{.View.Interface}} {{.View.Connection}}</h1>
<form method="get">
logs <input name="logs" value="{{.Filters.Logs}}">
events <input name="events" value="{{.Filters.Events}}">
<button>filter</button>
</form>
<img id="spark" src="/spark.svg" alt="traffic">
<div>
<button onclick="fetch('/actions/restart',{method:'POST'})">restart</button>
<button onclick="fetch('/actions/timeline/clear',{method:'POST'})">clear timeline</button>
<button id="copy-logs" onclick="fetch('/view'+location.search).then(function(r){return r.json();}).then(function(v){return navigator.clipboard.writeText(v.logs||'');}).catch(function(){})">copy logs</button>
<a href="/history.csv">history.csv</a>
</div>
<pre id="frame">{{.Frame}}</pre>
<script>
(function(){
  var q = location.search;
  var proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
  var ws = new WebSocket(proto + '//' + location.host + '/ws' + q);
  ws.onmessage = function(){
    fetch('/frame.txt' + q, {cache:'no-store'}).then(function(r){return r.text();}).then(function(t){
      document.getElementById('frame').textContent = t;
    });
    document.getElementById('spark').src = '/spark.svg?t=' + Date.now();
  };
})();
</script>
</body>
</html>
`))
