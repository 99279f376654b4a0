package main

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"carz/pkg/search"

	"github.com/gin-gonic/gin"
)

// maxUploadBody leaves room for multipart framing around a maximum-size image.
const maxUploadBody = search.MaxFileSize + 512*1024

type server struct {
	store  *sessionStore
	logger *slog.Logger
}

func newRouter(store *sessionStore, secret []byte, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))
	r.SetHTMLTemplate(loadTemplates())
	setupRoutes(r, &server{store: store, logger: logger}, secret)
	return r
}

func setupRoutes(r *gin.Engine, s *server, secret []byte) {
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	pages := r.Group("")
	pages.Use(identityMiddleware(secret, s.logger), sessionMiddleware(s.store))
	pages.GET("/", s.homeHandler)
	pages.GET("/cars", s.carsHandler)
	pages.POST("/search", s.textSearchHandler)
	pages.POST("/search/mode", s.toggleModeHandler)
	pages.POST("/search/image", s.imageSearchHandler)
	pages.POST("/search/image/upload", s.uploadHandler)
	pages.POST("/search/image/remove", s.removeImageHandler)
	pages.GET("/search/state", s.stateHandler)
}

func backHome(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *server) homeHandler(c *gin.Context) {
	s.renderHome(c, http.StatusOK, "")
}

func (s *server) renderHome(c *gin.Context, status int, notice string) {
	sess := sessionFromContext(c)
	page := newPage(roleFromContext(c))
	page.withWidget(sess)
	page.Notice = notice
	c.HTML(status, "home.tmpl", page)
}

// carsHandler is the landing spot for text searches; listing cars lives elsewhere.
func (s *server) carsHandler(c *gin.Context) {
	sess := sessionFromContext(c)
	page := newPage(roleFromContext(c))
	page.Results = c.Query("search")
	page.Toasts = sess.toasts.Drain()
	c.HTML(http.StatusOK, "cars.tmpl", page)
}

func (s *server) textSearchHandler(c *gin.Context) {
	sess := sessionFromContext(c)
	if err := sess.widget.SubmitTextSearch(c.PostForm("q")); err != nil {
		backHome(c)
		return
	}
	target := sess.nav.Take()
	if target == "" {
		target = search.ResultsPath
	}
	c.Redirect(http.StatusSeeOther, target)
}

func (s *server) toggleModeHandler(c *gin.Context) {
	sessionFromContext(c).widget.ToggleMode()
	backHome(c)
}

func (s *server) imageSearchHandler(c *gin.Context) {
	sess := sessionFromContext(c)
	err := sess.widget.SubmitImageSearch()
	if errors.Is(err, search.ErrImageSearchUnimplemented) {
		s.renderHome(c, http.StatusNotImplemented, "Image search is not available yet.")
		return
	}
	backHome(c)
}

// uploadHandler feeds one multipart file from the drop zone or file browser
// into the widget. Validation and its messages belong to the widget; the
// handler only reads the payload.
func (s *server) uploadHandler(c *gin.Context) {
	sess := sessionFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBody)
	file, err := c.FormFile("image")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			// the body was cut off, so the file is known to be over the limit
			sess.widget.AcceptFile(search.Candidate{Name: "upload", Size: search.MaxFileSize + 1})
		} else {
			s.logger.Debug("upload without file", "err", err)
		}
		backHome(c)
		return
	}
	cand, err := candidateFromHeader(file)
	if err != nil {
		s.logger.Warn("read upload", "file", file.Filename, "err", err)
		backHome(c)
		return
	}
	sess.widget.AcceptFile(cand)
	backHome(c)
}

func candidateFromHeader(fh *multipart.FileHeader) (search.Candidate, error) {
	c := search.Candidate{
		Name: fh.Filename,
		Type: fh.Header.Get("Content-Type"),
		Size: fh.Size,
	}
	if fh.Size > search.MaxFileSize {
		return c, nil
	}
	f, err := fh.Open()
	if err != nil {
		return search.Candidate{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, search.MaxFileSize+1))
	if err != nil {
		return search.Candidate{}, err
	}
	c.Data = data
	return c, nil
}

func (s *server) removeImageHandler(c *gin.Context) {
	if err := sessionFromContext(c).widget.RemoveImage(); err != nil {
		s.logger.Debug("remove image", "err", err)
	}
	backHome(c)
}

// stateHandler reports the widget state for clients polling a decode.
func (s *server) stateHandler(c *gin.Context) {
	snap := sessionFromContext(c).widget.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"mode":       snap.Mode,
		"query":      snap.Query,
		"status":     snap.Status,
		"file_name":  snap.FileName,
		"generation": snap.Generation,
		"preview":    snap.Preview.Present(),
		"view":       search.Derive(snap, search.DragIdle),
	})
}
