package http

import "html/template"

type indexPage struct {
	Year      int
	Month     int
	Providers []string
	Provider  string
}

var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html>
  <head>
    <title>Schedule Shifts</title>
    <style>
      body { font-family: Arial, sans-serif; background: #f2f2f2; margin: 0; padding: 20px; }
      h2, h3 { color: #333; }
      .container { display: flex; gap: 20px; }
      .column { flex: 1; background: #fff; padding: 20px; box-sizing: border-box; border-radius: 5px; box-shadow: 0 0 10px rgba(0,0,0,0.1); }
      input[type="text"], input[type="number"], select, textarea { width: 95%; padding: 10px; margin: 5px 0 15px 0; border: 1px solid #ccc; border-radius: 4px; }
      input[type="submit"], button { background-color: #4CAF50; color: white; padding: 10px 15px; border: none; border-radius: 4px; cursor: pointer; }
      input[type="submit"]:hover, button:hover { background-color: #45a049; }
      #stopButton { background-color: red; }
      #logs { background: #000; color: #0f0; padding: 10px; height: 300px; overflow-y: scroll; border-radius: 4px; white-space: pre-wrap; }
    </style>
  </head>
  <body>
    <h2>Autofill Shifts</h2>
    <p>Paste a request copied from your HR tool as cURL to fill in the credential, pick the month and start. Days already complete are skipped by providers that can check recorded time.</p>
    <div class="container">
      <div class="column">
        <form id="scheduleForm">
          Provider:
          <select name="provider" id="provider">
            {{range .Providers}}<option value="{{.}}"{{if eq . $.Provider}} selected{{end}}>{{.}}</option>{{end}}
          </select><br>
          Employee ID: <input type="text" name="employee_id" id="employee_id"><br>
          Credential (cookie or token): <input type="text" name="credential" id="credential"><br>
          Year: <input type="number" name="year" value="{{.Year}}"><br>
          Month: <input type="number" name="month" value="{{.Month}}" min="1" max="12"><br>
          <input type="submit" value="Schedule Shifts">
        </form>
        <form id="stopForm" style="margin-top: 20px; display: none;">
          <input type="submit" id="stopButton" value="Stop Process">
        </form>
      </div>
      <div class="column">
        <h3>Paste Curl Text:</h3>
        <textarea id="curlInput" rows="15" placeholder="Paste your curl command here..."></textarea>
        <button id="parseCurl">Parse Curl</button>
      </div>
    </div>
    <h3>Logs:</h3>
    <div id="logs"></div>
    <script>
      const scheduleForm = document.getElementById("scheduleForm");
      const stopForm = document.getElementById("stopForm");
      const logsDiv = document.getElementById("logs");
      let jobToken = "";

      function appendLog(text) {
        logsDiv.innerText += text;
        logsDiv.scrollTop = logsDiv.scrollHeight;
      }

      document.getElementById("parseCurl").addEventListener("click", function() {
        fetch("/api/v1/parse-curl", {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify({ curl: document.getElementById("curlInput").value })
        })
          .then(response => response.json())
          .then(body => {
            const fields = body.data || {};
            if (fields.credential) document.getElementById("credential").value = fields.credential;
            if (fields.employee_id) document.getElementById("employee_id").value = fields.employee_id;
            if (fields.provider) document.getElementById("provider").value = fields.provider;
          });
      });

      scheduleForm.addEventListener("submit", function(e) {
        e.preventDefault();
        logsDiv.innerText = "";
        fetch("/schedule", { method: "POST", body: new FormData(scheduleForm) })
          .then(response => {
            if (!response.ok) {
              return response.text().then(text => appendLog(text + "\n"));
            }
            jobToken = response.headers.get("X-Job-Token") || "";
            stopForm.style.display = "block";
            const reader = response.body.getReader();
            const decoder = new TextDecoder();
            function read() {
              reader.read().then(({ done, value }) => {
                if (done) {
                  stopForm.style.display = "none";
                  return;
                }
                appendLog(decoder.decode(value));
                read();
              });
            }
            read();
          });
      });

      stopForm.addEventListener("submit", function(e) {
        e.preventDefault();
        fetch("/stop", { method: "POST", headers: { "X-Job-Token": jobToken } })
          .then(response => response.text())
          .then(text => appendLog("\n" + text));
      });
    </script>
  </body>
</html>
`))
