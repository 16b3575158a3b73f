package server

// chatPage is the embedded single-page chat client.
const chatPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Personal Assistant</title>
<style>
  body { font-family: sans-serif; max-width: 720px; margin: 2rem auto; padding: 0 1rem; }
  #log { border: 1px solid #ccc; border-radius: 6px; height: 400px; overflow-y: auto; padding: 0.75rem; }
  .user { color: #146; margin: 0.4rem 0; }
  .assistant { color: #222; margin: 0.4rem 0; white-space: pre-wrap; }
  .error { color: #a22; margin: 0.4rem 0; }
  #controls { display: flex; gap: 0.5rem; margin-top: 0.75rem; }
  #message { flex: 1; }
  input { padding: 0.4rem; }
</style>
</head>
<body>
<h1>Personal Assistant</h1>
<p><input id="email" type="email" placeholder="Enter your email" size="40"></p>
<div id="log"></div>
<div id="controls">
  <input id="message" type="text" placeholder="Type a message">
  <button id="send">Send</button>
</div>
<script>
  const log = document.getElementById("log");
  const email = document.getElementById("email");
  const message = document.getElementById("message");
  const send = document.getElementById("send");

  const proto = location.protocol === "https:" ? "wss:" : "ws:";
  const ws = new WebSocket(proto + "//" + location.host + "/ws");

  function append(cls, text) {
    const div = document.createElement("div");
    div.className = cls;
    div.textContent = text;
    log.appendChild(div);
    log.scrollTop = log.scrollHeight;
  }

  ws.onmessage = (ev) => {
    const msg = JSON.parse(ev.data);
    append(msg.type === "error" ? "error" : "assistant", msg.text);
    send.disabled = false;
  };
  ws.onclose = () => append("error", "Connection closed. Reload to reconnect.");

  function submit() {
    const text = message.value.trim();
    if (!text) return;
    append("user", "You: " + text);
    ws.send(JSON.stringify({ email: email.value.trim(), message: text }));
    message.value = "";
    send.disabled = true;
  }

  send.onclick = submit;
  message.addEventListener("keydown", (ev) => { if (ev.key === "Enter") submit(); });
</script>
</body>
</html>
`
