package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/juryboard/internal/adapters/http/api"
	service "github.com/okian/juryboard/internal/app"
	"github.com/okian/juryboard/internal/domain/criteria"
	"github.com/okian/juryboard/internal/domain/model"
	"github.com/okian/juryboard/internal/domain/sheet"
	"github.com/okian/juryboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type mockDependencies struct {
	got []model.Upload
	lb  model.Leaderboard
	err error
}

func (m *mockDependencies) Calculate(_ context.Context, uploads []model.Upload) (model.Leaderboard, error) {
	m.got = uploads
	return m.lb, m.err
}

func (m *mockDependencies) Criteria() []criteria.Criterion {
	return criteria.Table()
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

type part struct {
	field string
	name  string
	data  string
}

func multipartBody(parts ...part) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, p := range parts {
		fw, err := mw.CreateFormFile(p.field, p.name)
		So(err, ShouldBeNil)
		_, err = fw.Write([]byte(p.data))
		So(err, ShouldBeNil)
	}
	So(mw.Close(), ShouldBeNil)
	return &buf, mw.FormDataContentType()
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
	return body
}

func newMux(deps *mockDependencies, opts ...api.Option) *http.ServeMux {
	mux := http.NewServeMux()
	stats := &mockStatsProvider{stats: map[string]interface{}{"batches": 3}}
	api.NewServer(deps, stats, opts...).Register(context.Background(), mux)
	return mux
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(&mockDependencies{})

		Convey("Then /healthz reports ok", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"status":"ok"`)
		})

		Convey("Then /metrics exposes the custom registry", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then /stats returns the provider's map", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats", http.NoBody))
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"batches":3`)
			So(w.Body.String(), ShouldContainSubstring, `"uptimeSeconds":`)
		})

		Convey("Then /stats rejects other methods", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/stats", http.NoBody))
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Then /api/criteria lists five weighted criteria", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/criteria", http.NoBody))
			So(w.Code, ShouldEqual, http.StatusOK)

			var body struct {
				Criteria []criteria.Criterion `json:"criteria"`
			}
			So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
			So(len(body.Criteria), ShouldEqual, 5)
			So(body.Criteria[0].Weight, ShouldEqual, 1.4)
		})
	})
}

func TestCalculateHandler(t *testing.T) {
	Convey("Given the calculate endpoint", t, func() {
		deps := &mockDependencies{lb: model.Leaderboard{
			BatchID: "b-1",
			Results: []model.TeamRecord{{Team: "A1", Total: 32.4, K1K2: 16.2, Place: "Гран-при"}},
		}}
		mux := newMux(deps)

		Convey("When the method is not POST", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/calculate", http.NoBody))

			Convey("Then it responds 405", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
				So(w.Header().Get("Allow"), ShouldEqual, http.MethodPost)
				So(decodeError(w)["code"], ShouldEqual, "method_not_allowed")
			})
		})

		Convey("When files are uploaded", func() {
			body, ct := multipartBody(
				part{field: "files", name: "a.xlsx", data: "first"},
				part{field: "files", name: "b.csv", data: "second"},
			)
			req := httptest.NewRequest(http.MethodPost, "/api/calculate", body)
			req.Header.Set("Content-Type", ct)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then uploads keep their order and the leaderboard is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(len(deps.got), ShouldEqual, 2)
				So(deps.got[0].Name, ShouldEqual, "a.xlsx")
				So(string(deps.got[1].Data), ShouldEqual, "second")

				var lb model.Leaderboard
				So(json.Unmarshal(w.Body.Bytes(), &lb), ShouldBeNil)
				So(lb.Results[0].Team, ShouldEqual, "A1")
				So(lb.Results[0].Place, ShouldEqual, "Гран-при")
				So(w.Body.String(), ShouldContainSubstring, `"k1_k2":16.2`)
				So(w.Body.String(), ShouldNotContainSubstring, `"errors"`)
			})
		})

		Convey("When no part uses the files field", func() {
			body, ct := multipartBody(part{field: "other", name: "a.xlsx", data: "x"})
			req := httptest.NewRequest(http.MethodPost, "/api/calculate", body)
			req.Header.Set("Content-Type", ct)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it responds 400 no_files", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "no_files")
				So(deps.got, ShouldBeNil)
			})
		})

		Convey("When the body is not multipart", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/calculate", strings.NewReader("{}"))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it responds 400 bad_request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When a sheet is rejected", func() {
			deps.err = sheet.NewError("solo.xlsx", sheet.ErrInsufficientJudgeRows, errors.New("found 1, need 2"))
			body, ct := multipartBody(part{field: "files", name: "solo.xlsx", data: "x"})
			req := httptest.NewRequest(http.MethodPost, "/api/calculate", body)
			req.Header.Set("Content-Type", ct)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it responds 400 with the sheet's code and file name", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				resp := decodeError(w)
				So(resp["code"], ShouldEqual, sheet.CodeInsufficientJudgeRows)
				So(resp["message"], ShouldStartWith, "solo.xlsx:")
			})
		})

		Convey("When the batch is too large", func() {
			deps.err = fmt.Errorf("%w: 3 > 2", service.ErrTooManyFiles)
			body, ct := multipartBody(part{field: "files", name: "a.xlsx", data: "x"})
			req := httptest.NewRequest(http.MethodPost, "/api/calculate", body)
			req.Header.Set("Content-Type", ct)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it responds 400 too_many_files", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "too_many_files")
			})
		})

		Convey("When an unexpected error occurs", func() {
			deps.err = errors.New("boom")
			body, ct := multipartBody(part{field: "files", name: "a.xlsx", data: "x"})
			req := httptest.NewRequest(http.MethodPost, "/api/calculate", body)
			req.Header.Set("Content-Type", ct)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it responds 500", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decodeError(w)["code"], ShouldEqual, sheet.CodeInternal)
			})
		})
	})

	Convey("Given a small upload limit", t, func() {
		deps := &mockDependencies{}
		mux := newMux(deps, api.WithMaxUploadBytes(512))
		body, ct := multipartBody(part{field: "files", name: "big.xlsx", data: strings.Repeat("x", 4096)})
		req := httptest.NewRequest(http.MethodPost, "/api/calculate", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		Convey("Then oversized bodies are rejected with 413", func() {
			So(w.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
			So(decodeError(w)["code"], ShouldEqual, "payload_too_large")
			So(deps.got, ShouldBeNil)
		})
	})
}

func TestErrorKinds(t *testing.T) {
	Convey("Given kind-tagged errors", t, func() {
		cause := errors.New("eof")
		err := api.WrapKind("api.calculate", api.ErrBadRequest, cause)

		Convey("Then both kind and cause are matchable", func() {
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.calculate: bad request: eof")
		})

		Convey("Then a kind without cause reads cleanly", func() {
			So(api.NewKind("api.criteria", api.ErrMethodNotAllowed).Error(), ShouldEqual, "api.criteria: method not allowed")
			So(errors.Is(api.WrapKind("op", api.ErrNoFiles, nil), api.ErrNoFiles), ShouldBeTrue)
		})
	})
}
