package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/slicetomeetyou/internal/heatmap"
	"github.com/gokatarajesh/slicetomeetyou/internal/pizza"
	"github.com/gokatarajesh/slicetomeetyou/internal/quiz"
	httperrors "github.com/gokatarajesh/slicetomeetyou/pkg/http/errors"
)

type recordingObserver struct {
	calls []string
}

func (r *recordingObserver) ObserveRequest(endpoint string, status int, _ time.Duration) {
	r.calls = append(r.calls, endpoint+":"+strconv.Itoa(status))
}

func newTestClient(t *testing.T, h http.Handler) (*Client, *recordingObserver) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	obs := &recordingObserver{}
	return NewClient(Config{BaseURL: srv.URL + "/"}, srv.Client(), obs, zerolog.Nop()), obs
}

// echoSubmit aggregates the posted batch the way the backend does for a
// fresh database.
func echoSubmit(w http.ResponseWriter, r *http.Request) {
	var batch struct {
		UserID    string `json:"user_id"`
		Responses []struct {
			A             int     `json:"a"`
			B             int     `json:"b"`
			Correct       bool    `json:"correct"`
			EffectiveTime float64 `json:"effective_time"`
		} `json:"responses"`
	}
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	type agg struct {
		total        float64
		count, wrong int
	}
	pairs := map[string]*agg{}
	var total float64
	for _, resp := range batch.Responses {
		key := strconv.Itoa(resp.A) + "_" + strconv.Itoa(resp.B)
		if pairs[key] == nil {
			pairs[key] = &agg{}
		}
		pairs[key].total += resp.EffectiveTime
		pairs[key].count++
		if !resp.Correct {
			pairs[key].wrong++
		}
		total += resp.EffectiveTime
	}
	hm := map[string]any{}
	for k, a := range pairs {
		hm[k] = map[string]any{"avg_effective": a.total / float64(a.count), "count": a.count, "wrong_count": a.wrong}
	}
	n := len(batch.Responses)
	avg := 0.0
	if n > 0 {
		avg = total / float64(n)
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"heatmap": hm, "user_avg": avg, "user_count": n, "world_avg": avg, "world_count": n,
	})
}

type fixedUI struct {
	clock   *time.Time
	answers []struct {
		correct bool
		delay   time.Duration
	}
	current quiz.Question
}

func (u *fixedUI) ShowQuestion(q quiz.Question) { u.current = q }
func (u *fixedUI) ShowInvalid(error) {}
func (u *fixedUI) ShowOutcome(quiz.Question, quiz.QuestionRecord) {}

func (u *fixedUI) ReadAnswer(context.Context) (string, error) {
	next := u.answers[0]
	u.answers = u.answers[1:]
	*u.clock = u.clock.Add(next.delay)
	if next.correct {
		return strconv.Itoa(u.current.Answer()), nil
	}
	return strconv.Itoa(u.current.Answer() + 1), nil
}

func TestSessionAgainstEchoBackend(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /submit", echoSubmit)
	client, obs := newTestClient(t, mux)

	now := time.Unix(1_700_000_000, 0)
	ui := &fixedUI{clock: &now}
	for _, a := range []struct {
		correct bool
		delay   time.Duration
	}{
		{true, 2 * time.Second}, {false, 3 * time.Second}, {true, 2 * time.Second},
		{false, 3 * time.Second}, {true, 2 * time.Second},
	} {
		ui.answers = append(ui.answers, a)
	}

	game, err := quiz.NewGame(quiz.DefaultConfig(), client, quiz.GameOptions{
		SessionOptions: []quiz.Option{
			quiz.WithClock(func() time.Time { return now }),
			quiz.WithPause(func(context.Context, time.Duration) error { return nil }),
		},
	}, zerolog.Nop())
	require.NoError(t, err)

	outcome, err := game.Play(context.Background(), "6f1c7f3e-8f57-4a4e-9d1b-0a7c0f0f2b11", ui)
	require.NoError(t, err)
	require.NotNil(t, outcome.Result)

	assert.Equal(t, 6400*time.Millisecond, outcome.Summary.AverageEffective)
	assert.InDelta(t, 6.4, outcome.Result.UserAvg, 1e-9)
	assert.Equal(t, 5, outcome.Result.UserCount)
	assert.NotEmpty(t, outcome.Result.Heatmap)
	assert.Equal(t, []string{"submit:200"}, obs.calls)

	grid := heatmap.Render(outcome.Result.Heatmap, 20, 20)
	assert.Equal(t, 20, grid.Rows)
}

func TestSubmitRequiresUserID(t *testing.T) {
	var hits atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits.Add(1) }))

	_, err := client.Submit(context.Background(), quiz.SessionBatch{})
	assert.True(t, httperrors.IsKind(err, httperrors.KindInputValidation))
	assert.Zero(t, hits.Load())
}

func TestSubmitKeepsStatsWithMalformedHeatmapKey(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"user_avg": 4.2, "user_count": 5, "world_avg": 5.1, "world_count": 90,
			"heatmap": {"1_1": {"avg_effective": 2, "count": 1, "wrong_count": 0},
				"0_3": {"avg_effective": 9, "count": 1, "wrong_count": 1}}}`))
	}))

	res, err := client.Submit(context.Background(), quiz.SessionBatch{UserID: "u"})
	require.NoError(t, err)
	assert.InDelta(t, 4.2, res.UserAvg, 1e-9)
	assert.Equal(t, 90, res.WorldCount)
	assert.Len(t, res.Heatmap, 1)
	_, ok := res.Heatmap.Lookup(1, 1)
	assert.True(t, ok)
}

func TestSubmitMissingHeatmap(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"user_avg": 1, "user_count": 1, "world_avg": 1, "world_count": 1}`))
	}))

	res, err := client.Submit(context.Background(), quiz.SessionBatch{UserID: "u"})
	require.NoError(t, err)
	assert.NotNil(t, res.Heatmap)
	assert.Empty(t, res.Heatmap)
}

func TestSubmitBackendError(t *testing.T) {
	client, obs := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "No user_id provided"}`))
	}))

	_, err := client.Submit(context.Background(), quiz.SessionBatch{UserID: "u"})
	require.Error(t, err)
	assert.True(t, httperrors.IsKind(err, httperrors.KindApplication))
	assert.Equal(t, "Error: No user_id provided", httperrors.UserMessage(err))
	assert.Equal(t, []string{"submit:400"}, obs.calls)
}

func TestMalformedPartyIDNeverSent(t *testing.T) {
	var hits atomic.Int32
	client, obs := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusTeapot)
	}))
	ctx := context.Background()

	for _, id := range []string{"AB", "TOO-LONG", "A!2B", "", "ab c"} {
		_, err := client.PartySummary(ctx, id)
		require.Error(t, err, id)
		assert.True(t, httperrors.HasCode(err, httperrors.ErrCodeInvalidPartyID), id)

		_, err = client.JoinParty(ctx, pizza.JoinRequest{PartyNumber: id, Name: "X"})
		require.Error(t, err, id)
		assert.True(t, httperrors.IsKind(err, httperrors.KindInputValidation), id)
	}
	assert.Zero(t, hits.Load())
	assert.Empty(t, obs.calls)
}

func TestPartySummary(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"party_number":"AB12","attendees":["ALICE"],"total_slices":3,"top_ingredients":[["ham",1]],"pizza_orders":[]}`))
	}))

	s, err := client.PartySummary(context.Background(), "ab12")
	require.NoError(t, err)
	assert.Equal(t, "/pizza/summary/AB12", gotPath)
	assert.Equal(t, "AB12", s.PartyNumber)
	assert.Equal(t, []pizza.TopIngredient{{Name: "ham", Count: 1}}, s.TopIngredients)
}

func TestPartySummaryNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"No party found with that ID"}`))
	}))

	_, err := client.PartySummary(context.Background(), "ZZZZ")
	assert.True(t, httperrors.HasCode(err, httperrors.ErrCodeNotFound))
	assert.Equal(t, "Error: No party found with that ID", httperrors.UserMessage(err))
}

func TestJoinParty(t *testing.T) {
	var body map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pizza/join", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"success":true,"message":"Successfully joined the pizza party!","override":{"message":"hi","image":"/static/x.jpg"}}`))
	}))

	req, err := pizza.NewJoinRequest(pizza.JoinInput{PartyID: "ab12", Name: "alice", SliceCount: 2})
	require.NoError(t, err)
	res, err := client.JoinParty(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res.Override)
	assert.Equal(t, "hi", res.Override.Message)
	assert.Equal(t, "AB12", body["partyNumber"])
	assert.Equal(t, "ALICE", body["name"])
}

func TestJoinPartyFailure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"Party is full"}`))
	}))

	req, err := pizza.NewJoinRequest(pizza.JoinInput{PartyID: "AB12", Name: "x", SliceCount: 1})
	require.NoError(t, err)
	_, err = client.JoinParty(context.Background(), req)
	assert.True(t, httperrors.HasCode(err, httperrors.ErrCodeJoinFailed))
	assert.Equal(t, "Error: Party is full", httperrors.UserMessage(err))
}

func TestAvailablePizzas(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hardcoded_pizzas":[{"id":1,"name":"Cheese","ingredients":[]}],"custom_pizzas":[{"id":"7","name":"Mine","ingredients":["ham"]}]}`))
	}))

	a, err := client.AvailablePizzas(context.Background())
	require.NoError(t, err)
	assert.Len(t, a.All(), 2)
	assert.Equal(t, pizza.PizzaID("1"), a.Hardcoded[0].ID)
}

func TestCreatePizza(t *testing.T) {
	var hits atomic.Int32
	var body pizza.CreatePizzaRequest
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	ctx := context.Background()

	_, err := client.CreatePizza(ctx, pizza.CreatePizzaRequest{PizzaName: "Too much", Ingredients: []string{"ham", "bacon", "basil", "garlic"}})
	assert.True(t, httperrors.HasCode(err, httperrors.ErrCodeIngredientsTooMany))
	_, err = client.CreatePizza(ctx, pizza.CreatePizzaRequest{PizzaName: "Nothing"})
	assert.True(t, httperrors.HasCode(err, httperrors.ErrCodeIngredientsEmpty))
	assert.Zero(t, hits.Load())

	_, err = client.CreatePizza(ctx, pizza.CreatePizzaRequest{PizzaName: "Hawaiian", Ingredients: []string{"Ham", "pineapple"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"ham", "pineapple"}, body.Ingredients)
}

func TestIngredients(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"ingredients": pizza.Keys()})
	}))

	keys, err := client.Ingredients(context.Background())
	require.NoError(t, err)
	assert.True(t, pizza.DiffCatalog(keys).Empty())
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	obs := &recordingObserver{}
	client := NewClient(Config{BaseURL: url, Timeout: time.Second}, nil, obs, zerolog.Nop())
	_, err := client.AvailablePizzas(context.Background())
	require.Error(t, err)
	assert.True(t, httperrors.IsKind(err, httperrors.KindNetwork))
	assert.Contains(t, httperrors.UserMessage(err), "pizza_available failed")
	assert.Equal(t, []string{"pizza_available:0"}, obs.calls)
}

func TestInvalidPayload(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	}))

	_, err := client.Ingredients(context.Background())
	assert.True(t, httperrors.HasCode(err, httperrors.ErrCodeInvalidPayload))
}
