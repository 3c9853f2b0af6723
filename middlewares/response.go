package middlewares

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/findhari93-sketch/NeramNewApp-sub004/config"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type ResponseWriter struct {
	Writer   http.ResponseWriter
	Language string
	handler  string
}

func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{
		Writer: w,
	}
}

type generalResponse struct {
	Errors  []*errorResponse `json:"errors"`
	Success bool             `json:"success"`
	Data    interface{}      `json:"data"`
}

type errorResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Scope   string      `json:"scope"`
	Data    interface{} `json:"data"`
}

type ErrOption func(*errorResponse)

func WithErrorScope(scope string) ErrOption {
	return func(err *errorResponse) {
		err.Scope = scope
	}
}

func (r *ResponseWriter) writeJSONResponse(code int, errors []*errorResponse, data interface{}) {
	r.Writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	response := &generalResponse{Errors: errors, Success: errors == nil, Data: data}
	b, err := json.Marshal(response)
	if err != nil {
		r.Writer.WriteHeader(http.StatusInternalServerError)
		r.Writer.Write([]byte(fmt.Sprintf("unexpected error: %v", err)))
		return
	}
	r.Writer.WriteHeader(code)
	r.Writer.Write(b)
}

func (r *ResponseWriter) writePlainJSONResponse(statusCode int, data interface{}) {
	b, err := json.Marshal(data)
	if err != nil {
		r.Writer.WriteHeader(http.StatusInternalServerError)
		r.Writer.Write([]byte(fmt.Sprintf("unexpected error: %v", err)))
		return
	}

	r.Writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	r.Writer.WriteHeader(statusCode)
	r.Writer.Write(b)
}

func (r *ResponseWriter) WriteJSON(statusCode int, data interface{}, err error, message string) {
	logger := r.logger()
	fields := make(log.Fields)
	fields["status_code"] = statusCode
	if statusCode >= 200 && statusCode <= 299 {
		logger.WithFields(fields).Info("success")
	}
	if statusCode >= 300 {
		if data == nil {
			data = map[string]interface{}{
				"error": message,
			}
		}
		if err == nil {
			err = errors.Errorf(message)
		}
		fields["errors"] = data
		logger.WithFields(fields).Error(err)
	}
	r.writePlainJSONResponse(statusCode, data)
}

// Write resolves the response message against the request language before
// delegating to WriteJSON.
func (r *ResponseWriter) Write(statusCode int, data interface{}, err error, rm *NewRM) {
	message := ""
	if rm != nil {
		message = (*rm)[r.requestLanguage()]
	}
	r.WriteJSON(statusCode, data, err, message)
}

func (r *ResponseWriter) String(code int, msg string) {
	r.Writer.Header().Set("Content-Type", "text/plain; charset=utf-8")
	r.Writer.WriteHeader(code)
	r.Writer.Write([]byte(msg))
}

func (r *ResponseWriter) Error(code int, msg string, opts ...ErrOption) {
	err := &errorResponse{Code: code, Message: msg}
	for _, With := range opts {
		With(err)
	}
	r.writeJSONResponse(code, []*errorResponse{err}, nil)
}

func (r *ResponseWriter) GetRequestLanguage(req *http.Request) {
	lang := req.Header.Get("Accept-Language")
	if _, ok := LanguageMap[lang]; ok {
		r.Language = lang
		return
	}
	r.Language = Language.English
}

func (r *ResponseWriter) requestLanguage() string {
	if r.Language == "" {
		return Language.English
	}
	return r.Language
}

func (r *ResponseWriter) StartLogger(handler string) {
	r.handler = handler
}

func (r *ResponseWriter) LogError(err error, message string) {
	fields := log.Fields{"handler": r.handler}
	if err != nil {
		fields["error"] = err
	}
	r.logger().WithFields(fields).Error(message)
}

func (r *ResponseWriter) LogWarn(message string, fields log.Fields) {
	if fields == nil {
		fields = log.Fields{}
	}
	fields["handler"] = r.handler
	r.logger().WithFields(fields).Warn(message)
}

func (r *ResponseWriter) LogInfo(data interface{}, message string) {
	fields := log.Fields{"handler": r.handler}
	if data != nil {
		fields["data"] = data
	}
	r.logger().WithFields(fields).Info(message)
}

func (r *ResponseWriter) logger() *log.Entry {
	logger := config.GetLogger()
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return logger
}
