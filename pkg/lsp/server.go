package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sysid/bkmr/pkg/bkmrerr"
	"github.com/sysid/bkmr/pkg/bookmark"
	"github.com/sysid/bkmr/pkg/query"
)

// BookmarkAPI is the subset of BookmarkService the server's
// executeCommand handlers need, beyond the read-only Service interface
// used by the completion pipeline.
type BookmarkAPI interface {
	Service
	Add(ctx context.Context, b *bookmark.Bookmark) error
	Update(ctx context.Context, b *bookmark.Bookmark, force bool) error
	Delete(ctx context.Context, id int64) error
}

// Server is the LSP process: transport, document cache, and the
// bookmark service it delegates retrieval and mutation to.
type Server struct {
	t        *Transport
	docs     *DocumentStore
	svc      BookmarkAPI
	render   func(ctx context.Context, content string) (string, error)
	completionDeadline time.Duration
}

// NewServer wires a Server. render is the templateengine's interpolation
// closure; completionDeadline bounds a single completion request;
// zero means no deadline (tests only).
func NewServer(t *Transport, svc BookmarkAPI, render func(context.Context, string) (string, error), completionDeadline time.Duration) *Server {
	return &Server{t: t, docs: NewDocumentStore(), svc: svc, render: render, completionDeadline: completionDeadline}
}

// ProbeBinary checks that the bkmr binary is reachable, under a 5-second
// timeout, logging but not failing startup on error.
func ProbeBinary(binary string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := exec.CommandContext(ctx, binary, "--help").Run(); err != nil {
		slog.Warn("bkmr binary probe failed", "binary", binary, "error", err)
	}
}

// Serve runs the read loop until the transport returns an error (client
// disconnect or EOF on stdin).
func (s *Server) Serve(ctx context.Context) error {
	for {
		req, err := s.t.ReadMessage()
		if err != nil {
			return err
		}
		s.handle(ctx, req)
		if req.Method == "exit" {
			return nil
		}
	}
}

func (s *Server) handle(ctx context.Context, req *Request) {
	corrID := uuid.NewString()
	slog.Debug("lsp: request", "corr_id", corrID, "method", req.Method)
	ctx = context.WithValue(ctx, corrIDKey{}, corrID)

	switch req.Method {
	case "initialize":
		s.reply(req, initializeResult(), nil)
	case "initialized", "exit":
		// notifications, no response
	case "textDocument/didOpen":
		s.handleDidOpen(req)
	case "textDocument/didChange":
		s.handleDidChange(req)
	case "textDocument/didClose":
		s.handleDidClose(req)
	case "textDocument/completion":
		s.handleCompletion(ctx, req)
	case "workspace/executeCommand":
		s.handleExecuteCommand(ctx, req)
	case "shutdown":
		s.reply(req, nil, nil)
	default:
		if req.ID != nil {
			s.reply(req, nil, &ResponseError{Code: -32601, Message: "method not found: " + req.Method})
		}
	}
}

type corrIDKey struct{}

// corrID returns the request-correlation id stashed in ctx by handle, or
// "" if none is present (e.g. a call made directly in a test).
func corrID(ctx context.Context) string {
	id, _ := ctx.Value(corrIDKey{}).(string)
	return id
}

func initializeResult() map[string]any {
	return map[string]any{
		"capabilities": map[string]any{
			"textDocumentSync": 1, // Full
			"completionProvider": map[string]any{
				"resolveProvider":   false,
				"triggerCharacters": []string{},
			},
			"executeCommandProvider": map[string]any{
				"commands": []string{
					"bkmr.insertFilepathComment",
					"bkmr.createSnippet",
					"bkmr.listSnippets",
					"bkmr.getSnippet",
					"bkmr.updateSnippet",
					"bkmr.deleteSnippet",
				},
			},
		},
	}
}

type textDocumentItem struct {
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
	Text       string `json:"text"`
}

func (s *Server) handleDidOpen(req *Request) {
	var p struct {
		TextDocument textDocumentItem `json:"textDocument"`
	}
	if err := json.Unmarshal(req.Params, &p); err != nil {
		slog.Warn("lsp: bad didOpen params", "error", err)
		return
	}
	s.docs.Open(p.TextDocument.URI, p.TextDocument.LanguageID, p.TextDocument.Text)
}

func (s *Server) handleDidChange(req *Request) {
	var p struct {
		TextDocument struct {
			URI string `json:"uri"`
		} `json:"textDocument"`
		ContentChanges []struct {
			Text string `json:"text"`
		} `json:"contentChanges"`
	}
	if err := json.Unmarshal(req.Params, &p); err != nil || len(p.ContentChanges) == 0 {
		return
	}
	s.docs.Change(p.TextDocument.URI, p.ContentChanges[len(p.ContentChanges)-1].Text)
}

func (s *Server) handleDidClose(req *Request) {
	var p struct {
		TextDocument struct {
			URI string `json:"uri"`
		} `json:"textDocument"`
	}
	if err := json.Unmarshal(req.Params, &p); err != nil {
		return
	}
	s.docs.Close(p.TextDocument.URI)
}

func (s *Server) handleCompletion(ctx context.Context, req *Request) {
	var p struct {
		TextDocument struct {
			URI string `json:"uri"`
		} `json:"textDocument"`
		Position Position `json:"position"`
	}
	if err := json.Unmarshal(req.Params, &p); err != nil {
		s.reply(req, CompletionList{IsIncomplete: true}, nil)
		return
	}

	doc, ok := s.docs.Get(p.TextDocument.URI)
	if !ok {
		slog.Warn("lsp: completion for uncached document", "corr_id", corrID(ctx), "uri", p.TextDocument.URI)
		s.reply(req, CompletionList{IsIncomplete: true}, nil)
		return
	}

	line := lineAt(doc.Text, p.Position.Line)

	cctx := ctx
	var cancel context.CancelFunc
	if s.completionDeadline > 0 {
		cctx, cancel = context.WithTimeout(ctx, s.completionDeadline)
		defer cancel()
	}

	list := Complete(cctx, s.svc, CompletionRequest{
		LanguageID:  doc.LanguageID,
		Line:        line,
		Character:   p.Position.Character,
		LineNumber:  p.Position.Line,
		DocumentURI: doc.URI,
		Interpolate: true,
	}, s.render)

	if cctx.Err() != nil {
		list = CompletionList{IsIncomplete: true}
	}

	s.reply(req, list, nil)
}

func lineAt(text string, lineNum int) string {
	lines := strings.Split(text, "\n")
	if lineNum < 0 || lineNum >= len(lines) {
		return ""
	}
	return strings.TrimSuffix(lines[lineNum], "\r")
}

func (s *Server) reply(req *Request, result any, rerr *ResponseError) {
	if req.ID == nil {
		return
	}
	if err := s.t.WriteResponse(&Response{ID: req.ID, Result: result, Error: rerr}); err != nil {
		slog.Error("lsp: failed writing response", "error", err)
	}
}

// commandResult is the {success, error} payload returned for
// executeCommand responses.
type commandResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func (s *Server) handleExecuteCommand(ctx context.Context, req *Request) {
	var p struct {
		Command   string            `json:"command"`
		Arguments []json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(req.Params, &p); err != nil {
		s.reply(req, commandResult{Success: false, Error: "invalid command payload"}, nil)
		return
	}

	result, err := s.dispatchCommand(ctx, p.Command, p.Arguments)
	if err != nil {
		slog.Warn("lsp: executeCommand failed", "corr_id", corrID(ctx), "command", p.Command, "error", err)
		s.reply(req, commandResult{Success: false, Error: err.Error()}, nil)
		return
	}
	s.reply(req, commandResult{Success: true, Data: result}, nil)
}

func (s *Server) dispatchCommand(ctx context.Context, command string, args []json.RawMessage) (any, error) {
	switch command {
	case "bkmr.insertFilepathComment":
		var a struct {
			URI string `json:"uri"`
		}
		if len(args) == 0 || json.Unmarshal(args[0], &a) != nil {
			return nil, bkmrerr.New(bkmrerr.KindLSPProtocol, "lsp.insertFilepathComment", fmt.Errorf("missing uri argument"))
		}
		return map[string]string{"text": "// " + filenameFromURI(a.URI)}, nil

	case "bkmr.createSnippet":
		var a struct {
			Title   string `json:"title"`
			Content string `json:"content"`
			Tags    string `json:"tags"`
		}
		if len(args) == 0 || json.Unmarshal(args[0], &a) != nil {
			return nil, bkmrerr.New(bkmrerr.KindLSPProtocol, "lsp.createSnippet", fmt.Errorf("invalid arguments"))
		}
		tags := bookmark.NewTagSet(a.Tags)
		tags.Add(bookmark.SysSnippet)
		b := &bookmark.Bookmark{Title: a.Title, URL: a.Content, Tags: tags}
		if err := s.svc.Add(ctx, b); err != nil {
			return nil, err
		}
		return map[string]int64{"id": b.ID}, nil

	case "bkmr.listSnippets":
		results, err := s.svc.Search(ctx, &query.BookmarkQuery{
			Spec: func(b *bookmark.Bookmark) bool { return b.Tags.IsSnippet() },
		})
		if err != nil {
			return nil, err
		}
		return results, nil

	case "bkmr.getSnippet":
		var a struct {
			ID int64 `json:"id"`
		}
		if len(args) == 0 || json.Unmarshal(args[0], &a) != nil {
			return nil, bkmrerr.New(bkmrerr.KindLSPProtocol, "lsp.getSnippet", fmt.Errorf("invalid arguments"))
		}
		results, err := s.svc.Search(ctx, &query.BookmarkQuery{
			Spec: func(b *bookmark.Bookmark) bool { return b.ID == a.ID },
		})
		if err != nil {
			return nil, err
		}
		if len(results) == 0 {
			return nil, bkmrerr.ErrBookmarkNotFound
		}
		return results[0], nil

	case "bkmr.updateSnippet":
		var a struct {
			ID      int64  `json:"id"`
			Content string `json:"content"`
		}
		if len(args) == 0 || json.Unmarshal(args[0], &a) != nil {
			return nil, bkmrerr.New(bkmrerr.KindLSPProtocol, "lsp.updateSnippet", fmt.Errorf("invalid arguments"))
		}
		b := &bookmark.Bookmark{ID: a.ID, URL: a.Content}
		if err := s.svc.Update(ctx, b, false); err != nil {
			return nil, err
		}
		return map[string]int64{"id": a.ID}, nil

	case "bkmr.deleteSnippet":
		var a struct {
			ID int64 `json:"id"`
		}
		if len(args) == 0 || json.Unmarshal(args[0], &a) != nil {
			return nil, bkmrerr.New(bkmrerr.KindLSPProtocol, "lsp.deleteSnippet", fmt.Errorf("invalid arguments"))
		}
		if err := s.svc.Delete(ctx, a.ID); err != nil {
			return nil, err
		}
		return map[string]int64{"id": a.ID}, nil

	default:
		return nil, bkmrerr.New(bkmrerr.KindLSPProtocol, "lsp.executeCommand", fmt.Errorf("unknown command %q", command))
	}
}
