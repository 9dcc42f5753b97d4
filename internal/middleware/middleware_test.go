package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/unireg/registrar/internal/response"
	"github.com/unireg/registrar/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequireStaff(t *testing.T) {
	Convey("Given staff routes protected by tokens", t, func() {
		resp := response.NewResponder(false)
		tokens := service.NewTokenService("secret", time.Hour)

		r := gin.New()
		staff := r.Group("/api", RequireStaff(tokens, resp))
		staff.GET("/instructor/:id/registrations", RequireOwnInstructor("id", resp), func(c *gin.Context) {
			c.JSON(http.StatusOK, []int{})
		})
		staff.GET("/all-registrations", func(c *gin.Context) {
			c.JSON(http.StatusOK, []int{})
		})

		get := func(path, token string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			if token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
			return serve(r, req)
		}

		Convey("requests without a token are refused with 401 even in compatible mode", func() {
			rec := get("/api/all-registrations", "")
			So(rec.Code, ShouldEqual, http.StatusUnauthorized)
			So(rec.Body.String(), ShouldContainSubstring, `"success":false`)
		})

		Convey("garbage tokens are refused", func() {
			So(get("/api/all-registrations", "not-a-jwt").Code, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("admins reach every staff route", func() {
			token, _ := tokens.Issue(service.RoleAdmin, 0)
			So(get("/api/all-registrations", token).Code, ShouldEqual, http.StatusOK)
			So(get("/api/instructor/201/registrations", token).Code, ShouldEqual, http.StatusOK)
		})

		Convey("instructors only read their own registrations", func() {
			token, _ := tokens.Issue(service.RoleInstructor, 201)
			So(get("/api/instructor/201/registrations", token).Code, ShouldEqual, http.StatusOK)
			So(get("/api/instructor/202/registrations", token).Code, ShouldEqual, http.StatusForbidden)
		})

		Convey("instructor ids are compared as numbers", func() {
			token, _ := tokens.Issue(service.RoleInstructor, 7)
			So(get("/api/instructor/007/registrations", token).Code, ShouldEqual, http.StatusOK)
			So(get("/api/instructor/0070/registrations", token).Code, ShouldEqual, http.StatusForbidden)
		})
	})

	Convey("Given no token validator", t, func() {
		r := gin.New()
		resp := response.NewResponder(false)
		r.GET("/open", RequireStaff(nil, resp), RequireOwnInstructor("id", resp), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})

		Convey("staff routes stay open", func() {
			So(serve(r, httptest.NewRequest(http.MethodGet, "/open", nil)).Code, ShouldEqual, http.StatusNoContent)
		})
	})
}

func TestRateLimiter(t *testing.T) {
	Convey("Given a limiter of two requests per minute", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		rl := NewRateLimiter(ctx, 2, time.Minute, response.NewResponder(false))
		now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
		rl.now = func() time.Time { return now }

		r := gin.New()
		r.POST("/api/register-course", rl.Middleware(), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		post := func() int {
			req := httptest.NewRequest(http.MethodPost, "/api/register-course", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			return serve(r, req).Code
		}

		Convey("the third request inside the window is throttled", func() {
			So(post(), ShouldEqual, http.StatusOK)
			So(post(), ShouldEqual, http.StatusOK)
			So(post(), ShouldEqual, http.StatusTooManyRequests)

			Convey("and the bucket refills after the interval", func() {
				now = now.Add(time.Minute)
				So(post(), ShouldEqual, http.StatusOK)
			})
		})

		Convey("stale visitors are evicted", func() {
			So(rl.allow("10.0.0.2"), ShouldBeTrue)
			now = now.Add(10 * time.Minute)
			rl.cleanup()
			rl.mu.Lock()
			_, exists := rl.visitors["10.0.0.2"]
			rl.mu.Unlock()
			So(exists, ShouldBeFalse)
		})
	})
}

func TestCompress(t *testing.T) {
	Convey("Given the brotli middleware", t, func() {
		long := strings.Repeat("registration ", 200)

		r := gin.New()
		r.Use(Compress())
		r.GET("/long", func(c *gin.Context) { c.String(http.StatusOK, long) })
		r.GET("/short", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

		get := func(path, encoding string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			if encoding != "" {
				req.Header.Set("Accept-Encoding", encoding)
			}
			return serve(r, req)
		}

		Convey("large bodies are compressed for br clients", func() {
			rec := get("/long", "gzip, br")
			So(rec.Header().Get("Content-Encoding"), ShouldEqual, "br")

			body, err := io.ReadAll(brotli.NewReader(bytes.NewReader(rec.Body.Bytes())))
			So(err, ShouldBeNil)
			So(string(body), ShouldEqual, long)
		})

		Convey("small bodies pass through untouched", func() {
			rec := get("/short", "br")
			So(rec.Header().Get("Content-Encoding"), ShouldBeEmpty)
			So(rec.Body.String(), ShouldEqual, "ok")
		})

		Convey("clients without br get plain bodies", func() {
			rec := get("/long", "gzip")
			So(rec.Header().Get("Content-Encoding"), ShouldBeEmpty)
			So(rec.Body.String(), ShouldEqual, long)
		})
	})
}
