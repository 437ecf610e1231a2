package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"unithub/internal/apperr"
	"unithub/internal/middleware"
	"unithub/internal/service"
)

const (
	maxJSONBodyBytes = 1 << 20
	msgInvalidBody   = "Invalid request body"
)

var errEmptyBody = errors.New("empty request body")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseBool(s string, def bool) bool {
	if s == "" {
		return def
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}

func readBodyJSON(r *http.Request, maxBytes int64, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes))
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return errEmptyBody
	}
	return json.Unmarshal(body, out)
}

// pathID 路由中的 {id}
func pathID(r *http.Request) string {
	return mux.Vars(r)["id"]
}

// ownerOf 由 Auth 中间件写入；缺失时返回 401
func ownerOf(w http.ResponseWriter, r *http.Request) (string, bool) {
	ownerID := middleware.OwnerID(r.Context())
	if ownerID == "" {
		writeJSON(w, http.StatusUnauthorized, QueryFail("Unauthorized"))
		return "", false
	}
	return ownerID, true
}

func writeQueryError(w http.ResponseWriter, op service.Op, err error) {
	writeJSON(w, apperr.HTTPStatus(err), QueryFail(service.Message(op, err)))
}

func writeActionError(w http.ResponseWriter, op service.Op, err error) {
	writeJSON(w, apperr.HTTPStatus(err), ActionFail(service.Message(op, err)))
}

// decodeAction 读取 JSON body；失败时已写入 400
func decodeAction(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := readBodyJSON(r, maxJSONBodyBytes, out); err != nil {
		writeJSON(w, http.StatusBadRequest, ActionFail(msgInvalidBody))
		return false
	}
	return true
}
