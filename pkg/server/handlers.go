package server

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ustclug/revlines/pkg/api"
	"github.com/ustclug/revlines/pkg/fs"
	"github.com/ustclug/revlines/pkg/model"
	"github.com/ustclug/revlines/pkg/revlines"
	"github.com/ustclug/revlines/pkg/tail"
	"github.com/ustclug/revlines/pkg/utils"
)

func (s *Server) registerAPIs(e *echo.Echo) {
	v1API := e.Group("/api/v1")

	v1API.GET("/files", s.handlerListFiles)
	v1API.GET("/files/:name/lines", s.handlerGetLines)
	v1API.GET("/files/:name/tail", s.handlerGetTail)
	v1API.DELETE("/cursors/:id", s.handlerRemoveCursor)
	v1API.GET("/stats", s.handlerListStats)
}

func (s *Server) handlerListFiles(c echo.Context) error {
	l := getLogger(c)
	l.Debug("Invoked")

	infos, err := fs.List(s.config.LogDir)
	if err != nil {
		const msg = "Fail to list files"
		l.Error(msg, slogErrAttr(err))
		return newHTTPError(http.StatusInternalServerError, msg)
	}
	resp := make(api.ListFilesResponse, len(infos))
	for i, info := range infos {
		resp[i] = api.ListFilesResponseItem{
			Name:  info.Name,
			Size:  info.Size,
			Mtime: info.Mtime,
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handlerGetLines(c echo.Context) error {
	l := getLogger(c)
	l.Debug("Invoked")

	name, err := getRequiredParamFromEchoContext(c, "name")
	if err != nil {
		return err
	}
	l = l.With(slog.String("file", name))

	var req api.GetLinesRequest
	err = bindAndValidate(c, &req)
	if err != nil {
		return err
	}
	limit := req.Limit
	if limit == 0 {
		limit = s.config.DefaultLimit
	}

	var sc *revlines.Scanner
	if len(req.Cursor) > 0 {
		cur, ok := s.cursors.take(req.Cursor)
		if !ok {
			return notFound("Cursor not found")
		}
		if cur.name != name {
			s.cursors.restore(req.Cursor, cur)
			return badRequest("Cursor belongs to another file")
		}
		sc = cur.scanner
	} else {
		bufSize := s.config.BufferSize
		if len(req.BufferSize) > 0 {
			bufSize, err = utils.ParseSize(req.BufferSize)
			if err != nil {
				return badRequest(err.Error())
			}
			if bufSize > s.config.MaxBufferSize {
				return badRequest(fmt.Sprintf("bufferSize exceeds %s", utils.PrettySize(int64(s.config.MaxBufferSize))))
			}
		}
		f, err := s.openFile(l, name)
		if err != nil {
			return err
		}
		sc, err = revlines.New(f, revlines.WithBufferSize(bufSize))
		if err != nil {
			_ = f.Close()
			const msg = "Fail to scan file"
			l.Error(msg, slogErrAttr(err))
			return newHTTPError(http.StatusInternalServerError, msg)
		}
	}

	resp := api.GetLinesResponse{
		Lines: make([]string, 0, min(limit, 1024)),
	}
	for len(resp.Lines) < limit {
		line, err := sc.Next()
		if err == io.EOF {
			resp.EOF = true
			break
		}
		if err != nil {
			_ = sc.Close()
			if revlines.KindOf(err) == revlines.KindDecode {
				return newHTTPError(http.StatusUnprocessableEntity, err.Error())
			}
			const msg = "Fail to read lines"
			l.Error(msg, slogErrAttr(err))
			return newHTTPError(http.StatusInternalServerError, msg)
		}
		resp.Lines = append(resp.Lines, line)
	}
	if resp.EOF {
		_ = sc.Close()
	} else {
		resp.Cursor = s.cursors.put(name, sc)
	}

	s.recordScan(c, l, name, len(resp.Lines))
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handlerGetTail(c echo.Context) error {
	l := getLogger(c)
	l.Debug("Invoked")

	name, err := getRequiredParamFromEchoContext(c, "name")
	if err != nil {
		return err
	}
	l = l.With(slog.String("file", name))

	var req api.GetTailRequest
	err = bindAndValidate(c, &req)
	if err != nil {
		return err
	}

	f, err := s.openFile(l, name)
	if err != nil {
		return err
	}
	defer f.Close()

	t := tail.New(f, req.N, revlines.WithBufferSize(s.config.BufferSize))
	if err := t.Prepare(); err != nil {
		const msg = "Fail to read tail"
		l.Error(msg, slogErrAttr(err))
		return newHTTPError(http.StatusInternalServerError, msg)
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, echo.MIMETextPlainCharsetUTF8)
	resp.WriteHeader(http.StatusOK)
	_, err = t.WriteTo(newFlushWriter(resp))
	if err != nil {
		// The status line has been sent already.
		l.Error("Fail to write tail", slogErrAttr(err))
		return nil
	}
	s.recordScan(c, l, name, t.Lines())
	return nil
}

func (s *Server) handlerRemoveCursor(c echo.Context) error {
	l := getLogger(c)
	l.Debug("Invoked")

	id, err := getRequiredParamFromEchoContext(c, "id")
	if err != nil {
		return err
	}
	if !s.cursors.release(id) {
		return notFound("Cursor not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handlerListStats(c echo.Context) error {
	l := getLogger(c)
	l.Debug("Invoked")

	var stats []model.ScanStat
	err := s.getDB(c).Order("name").Find(&stats).Error
	if err != nil {
		const msg = "Fail to list stats"
		l.Error(msg, slogErrAttr(err))
		return newHTTPError(http.StatusInternalServerError, msg)
	}
	resp := make(api.ListStatsResponse, len(stats))
	for i, st := range stats {
		resp[i] = api.ScanStat{
			Name:     st.Name,
			Requests: st.Requests,
			Lines:    st.Lines,
			LastScan: st.LastScan,
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// recordScan logs failures instead of returning them.
func (s *Server) recordScan(c echo.Context, l *slog.Logger, name string, lines int) {
	now := time.Now().Unix()
	err := s.getDB(c).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "name"}},
			DoUpdates: clause.Assignments(map[string]any{
				"requests":  gorm.Expr("requests + 1"),
				"lines":     gorm.Expr("lines + ?", lines),
				"last_scan": now,
			}),
		}).
		Create(&model.ScanStat{
			Name:     name,
			Requests: 1,
			Lines:    int64(lines),
			LastScan: now,
		}).Error
	if err != nil {
		l.Warn("Fail to record scan", slogErrAttr(err))
	}
}
