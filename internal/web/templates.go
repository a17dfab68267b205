package web

import "html/template"

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Purchase Order Extractor</title>
<style>
body { font-family: sans-serif; max-width: 40em; margin: 2em auto; }
label { display: block; margin-top: 1em; }
input { width: 100%; padding: .3em; }
.notice { padding: .6em; margin-top: 1em; border-radius: 4px; }
.warning { background: #fff4d6; }
.error { background: #fde2e4; }
</style>
</head>
<body>
<h1>Purchase Order Extractor</h1>
<p>Searches the mailbox for purchase order PDFs in the date range and returns a spreadsheet of the extracted fields.</p>
{{if .Notice}}<div class="notice {{.Level}}">{{.Notice}}</div>{{end}}
{{if .Details}}<p>{{.Details}}</p>{{end}}
<form method="post" action="/extract">
<label>Email address <input type="email" name="email" value="{{.Email}}" required></label>
<label>App password <input type="password" name="password" autocomplete="off" required></label>
<label>From <input type="date" name="from" value="{{.From}}" required></label>
<label>To <input type="date" name="to" value="{{.To}}" required></label>
<p><button type="submit">Extract</button></p>
</form>
</body>
</html>
`))

// pageData fills the form. The password is never echoed back.
type pageData struct {
	Email   string
	From    string
	To      string
	Notice  string
	Level   string
	Details string
}
