package live

// pageShell is the HTML document wrapping the rendered tree. The inline
// script connects to /ws and applies region patches by data-weft id.
const pageShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s
<script>
(function () {
	var proto = location.protocol === "https:" ? "wss:" : "ws:";
	var ws = new WebSocket(proto + "//" + location.host + "/ws");
	ws.onmessage = function (ev) {
		var patch = JSON.parse(ev.data);
		var el = document.querySelector('[data-weft="' + patch.region + '"]');
		if (el) {
			el.textContent = patch.text;
		}
	};
})();
</script>
</body>
</html>
`
