package testutils

import (
	"io"
	"net/http"
	"net/http/httptest"
)

type RequestOptions struct {
	headers map[string]string
}

type RequestArgs struct {
	Router http.Handler
	Method string
	URL    string
	Body   io.Reader
}

// MakeRequest прогоняет запрос через роутер без реального сетевого слоя.
func MakeRequest(args RequestArgs, opts ...func(*RequestOptions)) (*http.Response, error) {
	options := RequestOptions{
		headers: make(map[string]string),
	}
	for _, opt := range opts {
		opt(&options)
	}

	request := httptest.NewRequest(args.Method, args.URL, args.Body)
	for k, v := range options.headers {
		request.Header.Set(k, v)
	}

	recorder := httptest.NewRecorder()
	args.Router.ServeHTTP(recorder, request)

	return recorder.Result(), nil
}

func WithHeader(name, value string) func(*RequestOptions) {
	return func(o *RequestOptions) {
		o.headers[name] = value
	}
}

// WithBearer выставляет Authorization заголовок с jwt токеном.
func WithBearer(token string) func(*RequestOptions) {
	return func(o *RequestOptions) {
		o.headers["Authorization"] = "Bearer " + token
	}
}

// WithForm выставляет Content-Type формы. Тело запроса должно быть уже
// закодировано через url.Values.Encode.
func WithForm() func(*RequestOptions) {
	return func(o *RequestOptions) {
		o.headers["Content-Type"] = "application/x-www-form-urlencoded"
	}
}
