package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/pagewizard/pkg/domain"
	"github.com/aretw0/pagewizard/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	m, err := observability.NewMetrics(nil)
	require.NoError(t, err)

	hooks := m.Hooks()
	ctx := context.Background()
	hooks.OnRunStart(ctx, &domain.EventBase{RunID: "r1"})
	hooks.OnStepEnter(ctx, &domain.StepEvent{StepID: "genre", StepType: domain.StepQuestion, Stage: 1})
	hooks.OnStepEnter(ctx, &domain.StepEvent{StepID: "analyzing", StepType: domain.StepLoading, Stage: 2})
	hooks.OnActionReturn(ctx, &domain.ActionEvent{Action: "analyzeProduct", Duration: time.Second, IsError: true})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StepVisits.WithLabelValues("genre", "question")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Stage))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActionErrors.WithLabelValues("analyzeProduct")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pagewizard_action_duration_seconds_count{action=\"analyzeProduct\"} 1")
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)
	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}

func TestCombine(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	var entered []string
	counting := domain.LifecycleHooks{
		OnStepEnter: func(_ context.Context, e *domain.StepEvent) { entered = append(entered, e.StepID) },
	}

	hooks := observability.Combine(observability.LoggingHooks(logger), counting)
	hooks.OnStepEnter(context.Background(), &domain.StepEvent{StepID: "tone"})
	hooks.OnActionCall(context.Background(), &domain.ActionEvent{Action: "savePersona"})

	assert.Equal(t, []string{"tone"}, entered)
	assert.Contains(t, buf.String(), "step_enter")
	assert.Contains(t, buf.String(), "action=savePersona")
}
