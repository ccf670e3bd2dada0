package kudos

import (
	"crypto/subtle"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/kudos/likes"
	"github.com/eringen/kudos/views"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, views.Login(false, CsrfToken(c)))
	}
	return a.renderDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.loginLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return Render(c, views.Login(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminResetLikes(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	slug := c.Param("slug")
	if !likes.ValidSlug(slug) {
		return c.NoContent(http.StatusBadRequest)
	}
	if !a.Likes.Enabled() {
		return c.NoContent(http.StatusServiceUnavailable)
	}
	if err := a.Likes.Reset(c.Request().Context(), slug); err != nil {
		return err
	}
	return a.renderDashboard(c, "reset")
}

func (a *App) renderDashboard(c echo.Context, msg string) error {
	var likeRows []views.LikeRow
	if a.Likes.Enabled() {
		all, err := a.Likes.All(c.Request().Context())
		if err != nil {
			return err
		}
		titles := a.postTitles()
		for slug, rec := range all {
			likeRows = append(likeRows, views.LikeRow{
				Slug:  slug,
				Title: titles[slug],
				Count: rec.Count,
				Users: len(rec.Users),
			})
		}
		sort.Slice(likeRows, func(i, j int) bool {
			if likeRows[i].Count != likeRows[j].Count {
				return likeRows[i].Count > likeRows[j].Count
			}
			return likeRows[i].Slug < likeRows[j].Slug
		})
	}

	summary := a.Vitals.Summarize(time.Now())
	var vitalRows []views.VitalRow
	for metric, m := range summary.Metrics {
		vitalRows = append(vitalRows, views.VitalRow{
			Metric:  metric,
			Average: m.Average,
			Rating:  m.Rating,
			Count:   m.Count,
		})
	}
	sort.Slice(vitalRows, func(i, j int) bool {
		return vitalRows[i].Metric < vitalRows[j].Metric
	})

	return Render(c, views.Dashboard(likeRows, vitalRows, msg, CsrfToken(c)))
}

// postTitles maps slugs to titles for dashboard labels. A feed error
// just leaves the labels empty.
func (a *App) postTitles() map[string]string {
	titles := map[string]string{}
	feed, err := a.Posts.List()
	if err != nil {
		return titles
	}
	for _, p := range feed {
		titles[p.Slug] = p.Title
	}
	return titles
}
