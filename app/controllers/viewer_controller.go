package controllers

import (
	"encoding/json"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"postviewer/app/client"
	"postviewer/app/models"
	"postviewer/app/viewer"
	"postviewer/app/views"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// ViewerController serves the post pages. Every request mounts a fresh
// viewer, resolves the identifier from the route and renders whatever state
// the fetch effect settled in.
type ViewerController struct {
	api       client.API
	opts      viewer.Options
	logger    *zap.Logger
	templates map[string]*template.Template
}

// NewViewerController creates a ViewerController using the embedded views.
func NewViewerController(api client.API, opts viewer.Options, loc *time.Location, logger *zap.Logger) *ViewerController {
	return NewViewerControllerWithFS(api, opts, loc, logger, views.FS)
}

// NewViewerControllerWithFS creates a ViewerController with templates read from fsys.
func NewViewerControllerWithFS(api client.API, opts viewer.Options, loc *time.Location, logger *zap.Logger, fsys fs.FS) *ViewerController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewerController{
		api:       api,
		opts:      opts,
		logger:    logger,
		templates: loadTemplates(fsys, loc),
	}
}

// loadTemplates loads and parses all page templates
func loadTemplates(fsys fs.FS, loc *time.Location) map[string]*template.Template {
	funcs := template.FuncMap{
		"formatDate": func(t time.Time) string {
			return models.FormatDateTime(t, loc)
		},
	}

	templates := make(map[string]*template.Template)
	templates["writing"] = template.Must(template.New("layout.html").Funcs(funcs).ParseFS(fsys,
		"layout.html",
		"shared/state.html",
		"writing/show.html",
	))
	templates["anonymous"] = template.Must(template.New("layout.html").Funcs(funcs).ParseFS(fsys,
		"layout.html",
		"shared/state.html",
		"shared/comments.html",
		"anonymous/show.html",
	))
	return templates
}

type postPage struct {
	ID       models.ID
	State    string
	Post     *models.Post
	RetryURL string
}

type commentsPage struct {
	ID        models.ID
	State     string
	Post      *models.Post
	RetryURL  string
	Comments  []models.Comment
	Draft     string
	Alert     string
	SubmitURL string
}

// ShowPost renders the post-only page.
func (vc *ViewerController) ShowPost(w http.ResponseWriter, r *http.Request) {
	id := models.ID(mux.Vars(r)["id"])

	v := viewer.NewPostViewer(vc.api, vc.logger, vc.opts)
	v.Navigate(r.Context(), id)
	if err := v.Wait(r.Context()); err != nil {
		vc.logger.Warn("request ended before post was fetched", zap.String("id", id.String()), zap.Error(err))
		return
	}

	view := v.View()
	if wantsJSON(r) {
		sendJSON(w, http.StatusOK, view)
		return
	}

	render(w, r, vc.logger, vc.templates["writing"], http.StatusOK, postPage{
		ID:       view.ID,
		State:    view.State.String(),
		Post:     view.Post,
		RetryURL: r.URL.Path,
	})
}

// ShowPostWithComments renders the post page with its comment section.
func (vc *ViewerController) ShowPostWithComments(w http.ResponseWriter, r *http.Request) {
	v, ok := vc.mountWithComments(w, r)
	if !ok {
		return
	}
	vc.renderWithComments(w, r, v, http.StatusOK, "")
}

// SubmitComment handles the comment form. The page is rendered from the
// state fetched before the submission, so an accepted comment is not listed
// until the page is opened again.
func (vc *ViewerController) SubmitComment(w http.ResponseWriter, r *http.Request) {
	content, err := readCommentContent(r)
	if err != nil {
		sendError(w, r, "Invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}

	v, ok := vc.mountWithComments(w, r)
	if !ok {
		return
	}

	v.SetDraft(content)
	err = v.SubmitComment(r.Context())
	switch {
	case err == nil:
		vc.renderWithComments(w, r, v, http.StatusOK, "")
	case errors.Is(err, viewer.ErrBlankDraft):
		vc.renderWithComments(w, r, v, http.StatusUnprocessableEntity, viewer.BlankDraftAlert)
	case errors.Is(err, viewer.ErrPostNotLoaded):
		vc.renderWithComments(w, r, v, http.StatusConflict, "")
	default:
		vc.renderWithComments(w, r, v, http.StatusBadGateway, "")
	}
}

func (vc *ViewerController) mountWithComments(w http.ResponseWriter, r *http.Request) (*viewer.PostWithCommentsViewer, bool) {
	id := models.ID(mux.Vars(r)["id"])

	v := viewer.NewPostWithCommentsViewer(vc.api, vc.logger, vc.opts)
	v.Navigate(r.Context(), id)
	if err := v.Wait(r.Context()); err != nil {
		vc.logger.Warn("request ended before post was fetched", zap.String("id", id.String()), zap.Error(err))
		return nil, false
	}
	return v, true
}

func (vc *ViewerController) renderWithComments(w http.ResponseWriter, r *http.Request, v *viewer.PostWithCommentsViewer, status int, alert string) {
	view := v.View()
	if wantsJSON(r) {
		if alert != "" {
			sendJSON(w, status, map[string]interface{}{"view": view, "alert": alert})
			return
		}
		sendJSON(w, status, view)
		return
	}

	pagePath := "/anonymous/" + view.ID.String()
	render(w, r, vc.logger, vc.templates["anonymous"], status, commentsPage{
		ID:        view.ID,
		State:     view.State.String(),
		Post:      view.Post,
		RetryURL:  pagePath,
		Comments:  view.Comments,
		Draft:     view.Draft,
		Alert:     alert,
		SubmitURL: pagePath + "/comments",
	})
}

// readCommentContent accepts either a JSON body {"content": ...} or a form.
func readCommentContent(r *http.Request) (string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Content string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return "", err
		}
		return body.Content, nil
	}
	if err := r.ParseForm(); err != nil {
		return "", err
	}
	return r.FormValue("content"), nil
}

// Health reports liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
