package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"syscall"

	"github.com/chatlinehq/chatline/errs"
	"github.com/chatlinehq/chatline/types"
	"github.com/chatlinehq/chatline/validator"
)

var (
	errBadRequest           = errs.NewInvalidArgumentError("Body", "bad request")
	errStreamingUnsupported = errors.New("streaming unsupported")
)

type errRespBody struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

func (h *Handler) respond(w http.ResponseWriter, v any, statusCode int) {
	b, err := json.Marshal(v)
	if err != nil {
		h.respondErr(w, fmt.Errorf("json marshal response body: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_, err = w.Write(b)
	if err != nil && !errors.Is(err, syscall.EPIPE) && !errors.Is(err, context.Canceled) {
		h.Logger.Error("write response", "err", err)
	}
}

func (h *Handler) respondErr(w http.ResponseWriter, err error) {
	statusCode := err2code(err)
	if statusCode == http.StatusInternalServerError {
		if !errors.Is(err, context.Canceled) {
			h.Logger.Error("internal error", "err", err)
		}
		h.respond(w, errRespBody{Error: "internal server error"}, statusCode)
		return
	}

	body := errRespBody{Error: err.Error()}

	var v *validator.Validator
	if errors.As(err, &v) {
		body.Error = "invalid input"
		body.Fields = v.Errors
	}

	h.respond(w, body, statusCode)
}

func err2code(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var v *validator.Validator
	if errors.As(err, &v) {
		return http.StatusUnprocessableEntity
	}

	switch errs.KindOf(err) {
	case errs.KindInvalidArgument:
		return http.StatusBadRequest
	case errs.KindUnauthenticated:
		return http.StatusUnauthorized
	case errs.KindPermissionDenied:
		return http.StatusForbidden
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindAlreadyExists:
		return http.StatusConflict
	case errs.KindInvalidState:
		return http.StatusPreconditionFailed
	case errs.KindDependencyFailed:
		return http.StatusBadGateway
	}

	if errors.Is(err, errStreamingUnsupported) {
		return http.StatusExpectationFailed
	}

	return http.StatusInternalServerError
}

func (h *Handler) writeSSE(w io.Writer, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		h.Logger.Error("json marshal sse data", "err", err)
		_, errWrite := fmt.Fprintf(w, "event: error\ndata: %v\n\n", err)
		if errWrite != nil && !errors.Is(errWrite, syscall.EPIPE) {
			h.Logger.Error("write sse error", "err", errWrite)
		}
		return
	}

	_, errWrite := fmt.Fprintf(w, "data: %s\n\n", b)
	if errWrite != nil && !errors.Is(errWrite, syscall.EPIPE) {
		h.Logger.Error("write sse data", "err", errWrite)
	}
}

func parsePageArgs(q url.Values) (types.PageArgs, error) {
	var pageArgs types.PageArgs

	if q.Has("first") {
		first, err := strconv.ParseUint(q.Get("first"), 10, 64)
		if err != nil {
			return pageArgs, errs.NewInvalidArgumentError("first", "invalid first page arg")
		}

		pageArgs.First = new(uint(first))
	}

	if q.Has("after") {
		pageArgs.After = new(q.Get("after"))
	}

	if q.Has("last") {
		last, err := strconv.ParseUint(q.Get("last"), 10, 64)
		if err != nil {
			return pageArgs, errs.NewInvalidArgumentError("last", "invalid last page arg")
		}

		pageArgs.Last = new(uint(last))
	}

	if q.Has("before") {
		pageArgs.Before = new(q.Get("before"))
	}

	return pageArgs, pageArgs.Validate()
}
