package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/universus/internal/adapters/http/api"
	"github.com/okian/universus/internal/adapters/mq/queue"
	"github.com/okian/universus/internal/adapters/repository"
	service "github.com/okian/universus/internal/app"
	"github.com/okian/universus/internal/domain/catalog"
	"github.com/okian/universus/internal/domain/model"
	"github.com/okian/universus/internal/domain/simulation"
	"github.com/okian/universus/internal/domain/types"
	"github.com/okian/universus/internal/roster"
	. "github.com/smartystreets/goconvey/convey"
)

// mockDependencies records calls and returns canned results.
type mockDependencies struct {
	players   map[string]types.Player
	upserted  []roster.UpsertRequest
	deleted   []string
	singleErr error
	submitErr error
	submitted []string
	jobs      map[string]types.Job
}

func newMock() *mockDependencies {
	return &mockDependencies{
		players: map[string]types.Player{
			"Mike Tyson": {Participant: model.Participant{Name: "Mike Tyson", Origin: model.OriginOfficial}},
		},
		jobs: map[string]types.Job{},
	}
}

func (m *mockDependencies) Sports() []model.Sport { return catalog.Default().Sports() }

func (m *mockDependencies) WeightClasses() []model.WeightClass {
	return catalog.Default().WeightClasses()
}

func (m *mockDependencies) Players() ([]types.Player, error) {
	out := make([]types.Player, 0, len(m.players))
	for _, p := range m.players {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockDependencies) Player(name string) (types.Player, error) {
	p, ok := m.players[name]
	if !ok {
		return types.Player{}, fmt.Errorf("%w: %s", roster.ErrNotFound, name)
	}
	return p, nil
}

func (m *mockDependencies) UpsertPlayer(_ context.Context, req roster.UpsertRequest) (types.Player, error) {
	if _, ok := m.players[req.Name]; ok {
		return types.Player{}, roster.ErrProtected
	}
	m.upserted = append(m.upserted, req)
	return types.Player{Participant: model.Participant{Name: req.Name, Tiers: req.Tiers}}, nil
}

func (m *mockDependencies) DeletePlayer(_ context.Context, name string) error {
	if _, ok := m.players[name]; ok {
		return roster.ErrProtected
	}
	m.deleted = append(m.deleted, name)
	return nil
}

func (m *mockDependencies) SimulateSingle(_ context.Context, sport string, side1, side2 []string) (model.MatchResult, error) {
	if m.singleErr != nil {
		return model.MatchResult{}, m.singleErr
	}
	return model.MatchResult{Sport: sport, Side1: side1, Side2: side2, Winner: model.Side1}, nil
}

func (m *mockDependencies) SimulateMultisport(_ context.Context, _, _ []string) (model.MultisportResult, error) {
	return model.MultisportResult{Score1: 3, Score2: 1, Winner: model.Side1}, nil
}

func (m *mockDependencies) SubmitJob(_ context.Context, requestID string, req model.MatchRequest) (types.Job, bool, error) {
	if m.submitErr != nil {
		return types.Job{}, false, m.submitErr
	}
	for _, j := range m.jobs {
		if requestID != "" && j.RequestID == requestID {
			return j, true, nil
		}
	}
	j := types.Job{ID: fmt.Sprintf("job-%d", len(m.jobs)+1), RequestID: requestID, State: types.JobQueued, Request: req}
	m.jobs[j.ID] = j
	m.submitted = append(m.submitted, requestID)
	return j, false, nil
}

func (m *mockDependencies) Job(id string) (types.Job, error) {
	j, ok := m.jobs[id]
	if !ok {
		return types.Job{}, service.ErrJobNotFound
	}
	return j, nil
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func do(h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func errorCode(w *httptest.ResponseRecorder) string {
	var body struct {
		Code string `json:"code"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body.Code
}

func TestServer_Routes(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := newMock()
		h := api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"started": true}}).Handler()

		Convey("Then health should report ok", func() {
			w := do(h, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"ok"`)
		})

		Convey("Then metrics should be exposed", func() {
			w := do(h, http.MethodGet, "/metrics", "")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then stats should be returned as JSON", func() {
			w := do(h, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"started":true`)
		})

		Convey("Then sports should list the catalog", func() {
			w := do(h, http.MethodGet, "/sports", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var body struct {
				Sports []struct {
					Name string `json:"name"`
				} `json:"sports"`
				WeightClasses []string `json:"weight_classes"`
			}
			So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
			So(body.Sports, ShouldHaveLength, 5)
			So(body.WeightClasses, ShouldContain, "Heavyweight")
		})

		Convey("Then unknown routes should 404", func() {
			So(do(h, http.MethodGet, "/leaderboard", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestServer_Players(t *testing.T) {
	Convey("Given a server with one official player", t, func() {
		deps := newMock()
		h := api.NewServer(deps, &mockStatsProvider{}).Handler()

		Convey("When fetching a name with a space", func() {
			w := do(h, http.MethodGet, "/players/Mike%20Tyson", "")

			Convey("Then the player should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"name":"Mike Tyson"`)
			})
		})

		Convey("When fetching an unknown player", func() {
			w := do(h, http.MethodGet, "/players/Nobody", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(errorCode(w), ShouldEqual, "not_found")
		})

		Convey("When creating a community player", func() {
			w := do(h, http.MethodPut, "/players/Rookie", `{"tiers":{"power":"S"},"weight_class":"Flyweight"}`)

			Convey("Then the request should reach the roster", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.upserted, ShouldHaveLength, 1)
				So(deps.upserted[0].Name, ShouldEqual, "Rookie")
				So(deps.upserted[0].Tiers[model.Power], ShouldEqual, model.TierS)
				So(deps.upserted[0].WeightClass, ShouldEqual, model.Flyweight)
			})
		})

		Convey("When the body names an unknown stat", func() {
			w := do(h, http.MethodPut, "/players/Rookie", `{"tiers":{"luck":"S"}}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(deps.upserted, ShouldBeEmpty)
		})

		Convey("When overwriting an official player", func() {
			w := do(h, http.MethodPut, "/players/Mike%20Tyson", `{}`)
			So(w.Code, ShouldEqual, http.StatusForbidden)
			So(errorCode(w), ShouldEqual, "protected")
		})

		Convey("When a name carries an escaped percent sign", func() {
			w := do(h, http.MethodDelete, "/players/a%2541", "")

			Convey("Then it should be unescaped exactly once", func() {
				So(w.Code, ShouldEqual, http.StatusNoContent)
				So(deps.deleted, ShouldResemble, []string{"a%41"})
			})
		})

		Convey("When deleting players", func() {
			So(do(h, http.MethodDelete, "/players/Rookie", "").Code, ShouldEqual, http.StatusNoContent)
			So(do(h, http.MethodDelete, "/players/Mike%20Tyson", "").Code, ShouldEqual, http.StatusForbidden)
			So(deps.deleted, ShouldResemble, []string{"Rookie"})
		})
	})
}

func TestServer_Matches(t *testing.T) {
	Convey("Given a server", t, func() {
		deps := newMock()
		h := api.NewServer(deps, &mockStatsProvider{}).Handler()

		Convey("When a single match is valid", func() {
			w := do(h, http.MethodPost, "/matches/single", `{"sport":"Boxing","side1":["a"],"side2":["b"]}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"Boxing"`)
		})

		Convey("When the body misses a side", func() {
			w := do(h, http.MethodPost, "/matches/single", `{"sport":"Boxing","side1":["a"]}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(errorCode(w), ShouldEqual, "bad_request")
		})

		Convey("When the body is not JSON", func() {
			w := do(h, http.MethodPost, "/matches/multisport", `side1=a`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the simulator rejects a name", func() {
			deps.singleErr = &simulation.ValidationError{
				Field: "side2",
				Names: []string{"Nobody"},
				Cause: simulation.ErrUnknownParticipant,
			}
			w := do(h, http.MethodPost, "/matches/single", `{"sport":"Boxing","side1":["a"],"side2":["Nobody"]}`)

			Convey("Then the offending names should be reported", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				var body struct {
					Code  string   `json:"code"`
					Field string   `json:"field"`
					Names []string `json:"names"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.Code, ShouldEqual, "invalid_request")
				So(body.Field, ShouldEqual, "side2")
				So(body.Names, ShouldResemble, []string{"Nobody"})
			})
		})

		Convey("When a multisport match is valid", func() {
			w := do(h, http.MethodPost, "/matches/multisport", `{"side1":["a","b"],"side2":["c"]}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"score1":3`)
		})
	})
}

func TestServer_Jobs(t *testing.T) {
	Convey("Given a server", t, func() {
		deps := newMock()
		h := api.NewServer(deps, &mockStatsProvider{}).Handler()
		body := `{"kind":"multisport","side1":["a"],"side2":["b"]}`

		Convey("When a job is submitted with an idempotency key", func() {
			first := do(h, http.MethodPost, "/jobs", body, "Idempotency-Key", "k-1")
			second := do(h, http.MethodPost, "/jobs", body, "Idempotency-Key", "k-1")

			Convey("Then the repeat should be acknowledged as a duplicate", func() {
				So(first.Code, ShouldEqual, http.StatusAccepted)
				So(second.Code, ShouldEqual, http.StatusOK)
				So(second.Body.String(), ShouldContainSubstring, `"duplicate":true`)
				So(deps.submitted, ShouldResemble, []string{"k-1"})
			})

			Convey("Then its status should be readable", func() {
				w := do(h, http.MethodGet, "/jobs/job-1", "")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"state":"queued"`)
			})
		})

		Convey("When a single job has no sport", func() {
			w := do(h, http.MethodPost, "/jobs", `{"kind":"single","side1":["a"],"side2":["b"]}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the kind is unknown", func() {
			w := do(h, http.MethodPost, "/jobs", `{"kind":"relay","side1":["a"],"side2":["b"]}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the queue is full", func() {
			deps.submitErr = queue.ErrQueueFull
			w := do(h, http.MethodPost, "/jobs", body)
			So(w.Code, ShouldEqual, http.StatusTooManyRequests)
			So(errorCode(w), ShouldEqual, "backpressure")
		})

		Convey("When the service is not running", func() {
			deps.submitErr = service.ErrNotStarted
			So(do(h, http.MethodPost, "/jobs", body).Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("When the store has been closed", func() {
			deps.submitErr = repository.ErrClosed
			w := do(h, http.MethodPost, "/jobs", body)
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(errorCode(w), ShouldEqual, "unavailable")
		})

		Convey("When the job does not exist", func() {
			So(do(h, http.MethodGet, "/jobs/nope", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestServer_CORS(t *testing.T) {
	Convey("Given a server limited to one origin", t, func() {
		h := api.NewServer(newMock(), &mockStatsProvider{}, api.WithAllowedOrigins([]string{"https://arena.example"})).Handler()

		Convey("Then allowed origins should be echoed", func() {
			w := do(h, http.MethodGet, "/sports", "", "Origin", "https://arena.example")
			So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "https://arena.example")
		})

		Convey("Then other origins should get no grant", func() {
			w := do(h, http.MethodGet, "/sports", "", "Origin", "https://elsewhere.example")
			So(w.Header().Get("Access-Control-Allow-Origin"), ShouldBeEmpty)
		})
	})
}

func TestServer_Docs(t *testing.T) {
	Convey("Given the full handler", t, func() {
		h := api.NewServer(newMock(), &mockStatsProvider{}).Handler()

		Convey("Then the OpenAPI document should be served", func() {
			w := do(h, http.MethodGet, "/openapi.yaml", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "/jobs/{id}")
		})
	})
}
