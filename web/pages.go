package web

import (
	"bytes"
	"html/template"
	"net/http"

	log "github.com/sirupsen/logrus"
)

const htmlContentType = "text/html;charset=UTF-8"

// ISO-8601 in UTC with milliseconds, e.g. 2024-05-01T09:30:00.000Z.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type detailsPage struct {
	Email     string
	Country   string
	Timestamp string
}

type flagPage struct {
	Code        string
	ImageURL    string
	Cached      bool
	ContentType string
	Size        int
}

type notFoundPage struct {
	Key string
}

var templates = template.Must(template.New("details").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Request Details</title>
<style>
body { font-family: sans-serif; padding: 2rem; max-width: 600px; margin: 0 auto; }
.card { border: 1px solid #ccc; border-radius: 8px; padding: 1.5rem; }
.label { font-weight: bold; color: #555; display: block; }
.item { margin-bottom: 1rem; }
</style>
</head>
<body>
<div class="card">
<h1>Request Details</h1>
<div class="item"><span class="label">User Email:</span> <span class="value">{{.Email}}</span></div>
<div class="item"><span class="label">Country:</span> <a href="/secure/{{.Country}}" class="value">{{.Country}}</a></div>
<div class="item"><span class="label">Timestamp:</span> <span class="value">{{.Timestamp}}</span></div>
</div>
</body>
</html>
`))

func init() {
	template.Must(templates.New("flag").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Secure Country</title>
<style>
body { font-family: sans-serif; padding: 2rem; text-align: center; background-color: #f4f4f4; }
.container { background: white; padding: 3rem; border-radius: 12px; display: inline-block; }
img { width: 200px; height: auto; border: 1px solid #ddd; }
.back-link { display: block; margin-top: 2rem; color: #555; }
</style>
</head>
<body>
<div class="container">
<h1>{{.Code}}</h1>
<img src="{{.ImageURL}}" alt="Flag of {{.Code}}"/>
{{if .Cached}}<p class="source">Cached copy ({{.ContentType}}, {{.Size}} bytes)</p>{{end}}
<a href="/secure" class="back-link">&larr; Back to Details</a>
</div>
</body>
</html>
`))
	template.Must(templates.New("notfound").Parse(`<!DOCTYPE html>
<html>
<head><title>Flag not found</title></head>
<body>
<h1>Flag not found</h1>
<p>No flag is available for {{.Key}}.</p>
<a href="/secure">&larr; Back to Details</a>
</body>
</html>
`))
}

// render executes the named template into a buffer first, so that a failing
// template does not leave a half-written 200 behind.
func render(w http.ResponseWriter, r *http.Request, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		loggerFor(r).WithFields(log.Fields{
			"err":      err,
			"template": name,
		}).Error("Could not render page")
		writeText(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.Header().Set("Content-Type", htmlContentType)
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		loggerFor(r).WithField("err", err).Warn("Failed writing response")
	}
}

func writeText(w http.ResponseWriter, r *http.Request, status int, text string) {
	w.Header().Set("Content-Type", htmlContentType)
	w.WriteHeader(status)
	if _, err := w.Write([]byte(text)); err != nil {
		loggerFor(r).WithField("err", err).Warn("Failed writing response")
	}
}
