// Package views renders the admin and error pages as templ components.
package views

import (
	"context"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

// LikeRow is one dashboard row for a post's like state.
type LikeRow struct {
	Slug  string
	Title string
	Count int
	Users int
}

// VitalRow is one dashboard row for an aggregated vitals metric.
type VitalRow struct {
	Metric  string
	Average float64
	Rating  string
	Count   int
}

const pageStyle = `body{font-family:system-ui,sans-serif;margin:0;background:#fafaf9;color:#1c1917}
main{max-width:52rem;margin:0 auto;padding:2rem 1rem}
h1{font-size:1.4rem}h2{font-size:1.1rem;margin-top:2rem}
table{width:100%;border-collapse:collapse;margin-top:.75rem}
th,td{text-align:left;padding:.4rem .6rem;border-bottom:1px solid #e7e5e4;font-size:.9rem}
th{font-size:.75rem;text-transform:uppercase;letter-spacing:.08em;color:#78716c}
input,button{font:inherit;padding:.45rem .7rem;border:1px solid #d6d3d1;border-radius:4px}
button{background:#1c1917;color:#fff;border-color:#1c1917;cursor:pointer}
button.subtle{background:none;color:#1c1917;border-color:#d6d3d1}
.msg{background:#ecfccb;border:1px solid #bef264;padding:.5rem .75rem;border-radius:4px;font-size:.9rem}
.error{background:#fee2e2;border:1px solid #fca5a5;padding:.5rem .75rem;border-radius:4px;font-size:.9rem}
.rating-good{color:#15803d}.rating-needs-improvement{color:#b45309}.rating-poor{color:#b91c1c}
.muted{color:#78716c}`

// page wraps body in the shared HTML shell.
func page(title string, body func(b *strings.Builder)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"/>`)
		b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1"/>`)
		b.WriteString(`<meta name="robots" content="noindex"/>`)
		b.WriteString("<title>" + html.EscapeString(title) + "</title>")
		b.WriteString("<style>" + pageStyle + "</style>")
		b.WriteString("</head><body><main>")
		body(&b)
		b.WriteString("</main></body></html>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// Login renders the admin login form.
func Login(showError bool, csrfToken string) templ.Component {
	return page("Admin", func(b *strings.Builder) {
		b.WriteString("<h1>Admin</h1>")
		if showError {
			b.WriteString(`<p class="error">Wrong password.</p>`)
		}
		b.WriteString(`<form method="POST" action="/admin/login/">`)
		b.WriteString(`<input type="hidden" name="_csrf" value="` + html.EscapeString(csrfToken) + `"/>`)
		b.WriteString(`<input type="password" name="password" placeholder="Password" autofocus/> `)
		b.WriteString(`<button type="submit">Sign in</button>`)
		b.WriteString("</form>")
	})
}

// Dashboard renders like counts and vitals aggregates with a reset
// control per post.
func Dashboard(likes []LikeRow, vitals []VitalRow, message, csrfToken string) templ.Component {
	return page("Dashboard", func(b *strings.Builder) {
		token := html.EscapeString(csrfToken)

		b.WriteString("<h1>Dashboard</h1>")
		b.WriteString(`<form method="POST" action="/admin/logout/">`)
		b.WriteString(`<input type="hidden" name="_csrf" value="` + token + `"/>`)
		b.WriteString(`<button type="submit" class="subtle">Sign out</button>`)
		b.WriteString("</form>")
		if message != "" {
			b.WriteString(`<p class="msg">` + html.EscapeString(message) + "</p>")
		}

		b.WriteString("<h2>Likes</h2>")
		if len(likes) == 0 {
			b.WriteString(`<p class="muted">No likes yet.</p>`)
		} else {
			b.WriteString("<table><thead><tr><th>Post</th><th>Count</th><th>Users</th><th></th></tr></thead><tbody>")
			for _, row := range likes {
				title := row.Title
				if title == "" {
					title = row.Slug
				}
				b.WriteString("<tr><td>" + html.EscapeString(title) +
					` <span class="muted">(` + html.EscapeString(row.Slug) + ")</span></td>")
				b.WriteString("<td>" + strconv.Itoa(row.Count) + "</td>")
				b.WriteString("<td>" + strconv.Itoa(row.Users) + "</td>")
				b.WriteString(`<td><button type="button" class="subtle" data-reset-slug="` +
					html.EscapeString(row.Slug) + `">Reset</button></td></tr>`)
			}
			b.WriteString("</tbody></table>")
		}

		b.WriteString("<h2>Web vitals (24h)</h2>")
		if len(vitals) == 0 {
			b.WriteString(`<p class="muted">No data available.</p>`)
		} else {
			b.WriteString("<table><thead><tr><th>Metric</th><th>Average</th><th>Rating</th><th>Samples</th></tr></thead><tbody>")
			for _, row := range vitals {
				b.WriteString("<tr><td>" + html.EscapeString(row.Metric) + "</td>")
				b.WriteString("<td>" + strconv.FormatFloat(row.Average, 'f', -1, 64) + "</td>")
				b.WriteString(`<td class="rating-` + html.EscapeString(row.Rating) + `">` +
					html.EscapeString(row.Rating) + "</td>")
				b.WriteString("<td>" + strconv.Itoa(row.Count) + "</td></tr>")
			}
			b.WriteString("</tbody></table>")
		}

		// Reset buttons issue a DELETE carrying the CSRF token.
		b.WriteString(`<script>document.querySelectorAll('[data-reset-slug]').forEach(function(btn){` +
			`btn.addEventListener('click',function(){` +
			`if(!confirm('Reset likes for '+btn.dataset.resetSlug+'?'))return;` +
			`fetch('/admin/likes/'+btn.dataset.resetSlug+'/',{method:'DELETE',` +
			`headers:{'X-CSRF-Token':'` + token + `'}}).then(function(){location.reload()});` +
			`})});</script>`)
	})
}

// NotFound renders the 404 page.
func NotFound() templ.Component {
	return page("Not Found", func(b *strings.Builder) {
		b.WriteString("<h1>404</h1><p>This page does not exist.</p>")
		b.WriteString(`<p><a href="/">Back home</a></p>`)
	})
}

// ServerError renders the 500 page.
func ServerError() templ.Component {
	return page("Server Error", func(b *strings.Builder) {
		b.WriteString("<h1>500</h1><p>Something went wrong. Try again shortly.</p>")
	})
}
