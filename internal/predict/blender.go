// Package predict blends the ML and formula probability paths into the final
// prediction, applying elite calibration, misc-signal uplift, and
// acceptance-rate reconciliation. Predict never returns an error: any
// unexpected failure degrades to a deterministic GPA/test fallback.
package predict

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/chancify/chancify/internal/audit"
	"github.com/chancify/chancify/internal/cache"
	"github.com/chancify/chancify/internal/calibration"
	"github.com/chancify/chancify/internal/factors"
	"github.com/chancify/chancify/internal/formula"
	"github.com/chancify/chancify/internal/metrics"
	"github.com/chancify/chancify/internal/model"
	"github.com/chancify/chancify/internal/optfloat"
	"github.com/chancify/chancify/internal/profile"
	"github.com/chancify/chancify/internal/signals"
)

// Final probability bounds for any blended result.
const (
	MinProbability = 0.02
	MaxProbability = 0.98
)

// Model-used labels.
const (
	ModelHybrid      = "hybrid_ml_formula"
	ModelMLOnly      = "ml_only"
	ModelFormulaOnly = "formula_only"
	ModelFallback    = "deterministic_fallback"
)

// Options tunes a single prediction.
type Options struct {
	// ModelName selects the registered ML client.
	ModelName string `json:"model_name"`
	// UseFormula keeps the formula path in the blend. False means ML only.
	UseFormula bool `json:"use_formula"`
	// MLProbability supplies an externally computed ML probability, skipping
	// client inference entirely.
	MLProbability optfloat.Value `json:"ml_probability"`
	// Features is the pre-built feature vector passed to the ML client.
	Features []float64 `json:"features"`
}

// DefaultOptions returns the standard prediction settings.
func DefaultOptions() Options {
	return Options{ModelName: "ensemble", UseFormula: true}
}

// Result is the final prediction. All floats are rounded to 4 decimals at
// construction so serialized output is stable.
type Result struct {
	ID                 string             `json:"id"`
	Probability        float64            `json:"probability"`
	ConfidenceLower    float64            `json:"confidence_lower"`
	ConfidenceUpper    float64            `json:"confidence_upper"`
	Band               string             `json:"band"`
	MLProbability      float64            `json:"ml_probability"`
	// MLConfidence is the confidence score behind the blend weights,
	// in [0.3, 0.9] when an ML probability participated and 0 otherwise.
	MLConfidence       float64            `json:"ml_confidence"`
	FormulaProbability float64            `json:"formula_probability"`
	BlendWeights       map[string]float64 `json:"blend_weights"`
	ModelUsed          string             `json:"model_used"`
	Explanation        string             `json:"explanation"`
	FeatureImportances map[string]float64 `json:"feature_importances,omitempty"`
	CompositeScore     float64            `json:"composite_score"`
	Percentile         float64            `json:"percentile_estimate"`
	PolicyNotes        []string           `json:"policy_notes"`
	Breakdown          []audit.Row        `json:"factor_breakdown"`
}

// Blender runs the hybrid prediction pipeline. Safe for concurrent use once
// constructed; all tables are read-only.
type Blender struct {
	weights factors.Weights
	mapper  formula.Mapper
	table   *calibration.Table
	models  *model.Registry
	cache   cache.Cache
	metrics *metrics.Metrics
}

// NewBlender wires the pipeline. models may be nil when only the formula
// path is available.
func NewBlender(weights factors.Weights, table *calibration.Table, models *model.Registry) *Blender {
	return &Blender{
		weights: weights,
		mapper:  formula.NewLogisticMapper(weights),
		table:   table,
		models:  models,
	}
}

// WithCache attaches an optional prediction-result cache.
func (b *Blender) WithCache(c cache.Cache) *Blender {
	b.cache = c
	return b
}

// WithMetrics attaches optional instrumentation.
func (b *Blender) WithMetrics(m *metrics.Metrics) *Blender {
	b.metrics = m
	return b
}

// Predict produces the final probability for one student/college pair. It
// never returns an error; unexpected failures produce a degraded result with
// ModelUsed set to ModelFallback.
func (b *Blender) Predict(ctx context.Context, student profile.StudentProfile, college profile.College, opts Options) Result {
	start := time.Now()
	digest := requestDigest(student, college, opts)
	id := uuid.NewSHA1(uuid.NameSpaceOID, digest).String()

	if b.cache != nil {
		if raw, ok := b.cache.Get(ctx, string(digest)); ok {
			var cached Result
			if err := json.Unmarshal(raw, &cached); err == nil {
				b.metrics.RecordCache(true)
				return cached
			}
		}
		b.metrics.RecordCache(false)
	}

	result := b.predictGuarded(ctx, id, student, college, opts)

	b.metrics.ObservePrediction(result.ModelUsed, result.Band, time.Since(start))
	if b.cache != nil {
		if raw, err := json.Marshal(result); err == nil {
			b.cache.Set(ctx, string(digest), raw)
		}
	}
	return result
}

// predictGuarded converts panics anywhere in the pipeline into the
// deterministic fallback result.
func (b *Blender) predictGuarded(ctx context.Context, id string, student profile.StudentProfile, college profile.College, opts Options) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("college", college.Name).Msg("prediction pipeline panicked, using fallback")
			result = b.fallbackResult(id, student)
		}
	}()
	return b.predict(ctx, id, student, college, opts)
}

func (b *Blender) predict(ctx context.Context, id string, student profile.StudentProfile, college profile.College, opts Options) Result {
	rate := college.AcceptanceRateOrDefault()
	formulaRes := b.mapper.Map(student.FactorScores, rate, college.UsesTesting(), college.NeedAware())

	mlProb, importances, hasML := b.mlProbability(ctx, opts)

	if !hasML {
		return b.formulaOnlyResult(id, formulaRes)
	}

	conf := mlConfidence(mlProb)
	wML, wF := blendWeights(conf, opts.UseFormula)
	blended := wML*mlProb + wF*formulaRes.Probability
	weights := map[string]float64{"ml": wML, "formula": wF}
	modelUsed := ModelHybrid
	if !opts.UseFormula {
		modelUsed = ModelMLOnly
	}

	notes := append([]string{}, formulaRes.PolicyNotes...)

	if entry, ok := b.lookupCalibration(college.Name); ok {
		bucket := calibration.AssessProfileStrength(calibration.Academics{
			GPAUnweighted: student.GPAUnweighted,
			GPAWeighted:   student.GPAWeighted,
			SATTotal:      student.SATTotal,
			ACTComposite:  student.ACTComposite,
		}, student.FactorScores)
		blended = calibration.Apply(blended, entry, bucket)
		notes = append(notes, fmt.Sprintf("elite calibration applied (%s, %s profile)", entry.Category, bucket))
		b.metrics.RecordCalibrationMatch()
	}

	if uplift := safeUplift(student.MiscItems, rate); uplift > 0 {
		blended += uplift
		notes = append(notes, fmt.Sprintf("achievement uplift +%.3f", uplift))
		b.metrics.RecordUplift()
	}

	blended = math.Max(MinProbability, math.Min(MaxProbability, blended))

	// Reconcile with the school's own acceptance rate: pull toward the rate,
	// then bound how far above or below it the prediction may land.
	maxAllowed := math.Min(MaxProbability, rate+0.35)
	minAllowed := math.Max(MinProbability, rate*0.3)
	reblended := 0.7*blended + 0.3*rate
	switch {
	case reblended > maxAllowed:
		blended = maxAllowed
		notes = append(notes, "probability capped near school acceptance rate")
	case reblended < minAllowed:
		blended = minAllowed
		notes = append(notes, "probability floored near school acceptance rate")
	default:
		blended = reblended
	}

	width := 0.15 * (1 - conf)
	lower := math.Max(MinProbability, blended-width)
	upper := math.Min(MaxProbability, blended+width)

	return Result{
		ID:                 id,
		Probability:        round4(blended),
		ConfidenceLower:    round4(lower),
		ConfidenceUpper:    round4(upper),
		Band:               Band(blended),
		MLProbability:      round4(mlProb),
		MLConfidence:       round4(conf),
		FormulaProbability: round4(formulaRes.Probability),
		BlendWeights:       roundMap(weights),
		ModelUsed:          modelUsed,
		Explanation:        explanation(modelUsed, weights),
		FeatureImportances: importances,
		CompositeScore:     round4(formulaRes.Composite),
		Percentile:         round4(formulaRes.Percentile),
		PolicyNotes:        notes,
		Breakdown:          formulaRes.Breakdown,
	}
}

func (b *Blender) lookupCalibration(name string) (calibration.Entry, bool) {
	if b.table == nil {
		return calibration.Entry{}, false
	}
	return b.table.Lookup(name)
}

// mlProbability resolves the ML side of the blend: an explicit probability
// wins, then client inference, then nothing. Inference failures log and
// degrade to the formula-only path.
func (b *Blender) mlProbability(ctx context.Context, opts Options) (float64, map[string]float64, bool) {
	if opts.MLProbability.Valid {
		return clamp01(opts.MLProbability.Float64), nil, true
	}
	if b.models == nil {
		return 0, nil, false
	}

	client, err := b.models.Resolve(opts.ModelName)
	if err != nil {
		return 0, nil, false
	}
	p, err := client.PredictProba(ctx, opts.Features)
	if err != nil {
		log.Warn().Err(err).Str("model", client.Name()).Msg("ML inference failed, using formula only")
		return 0, nil, false
	}

	var importances map[string]float64
	if r, ok := client.(model.ImportanceReporter); ok {
		importances = r.FeatureImportances()
	}
	return clamp01(p), importances, true
}

// mlConfidence maps an ML probability to a confidence score. Probabilities
// near 0.5 are least confident; the result is clamped to [0.3, 0.9].
func mlConfidence(p float64) float64 {
	conf := 1 - 4*p*(1-p)
	return math.Max(0.3, math.Min(0.9, conf))
}

func blendWeights(conf float64, useFormula bool) (wML, wFormula float64) {
	if !useFormula {
		return 1.0, 0.0
	}
	switch {
	case conf > 0.7:
		return 0.6, 0.4
	case conf > 0.5:
		return 0.5, 0.5
	default:
		return 0.4, 0.6
	}
}

// formulaOnlyResult short-circuits the blend when no ML probability exists:
// the formula probability stands as-is with a fixed confidence band, skipping
// calibration, uplift, and reconciliation.
func (b *Blender) formulaOnlyResult(id string, formulaRes formula.Result) Result {
	p := math.Max(MinProbability, math.Min(MaxProbability, formulaRes.Probability))
	return Result{
		ID:                 id,
		Probability:        round4(p),
		ConfidenceLower:    round4(math.Max(MinProbability, p-0.10)),
		ConfidenceUpper:    round4(math.Min(MaxProbability, p+0.10)),
		Band:               Band(p),
		MLProbability:      round4(p),
		MLConfidence:       0,
		FormulaProbability: round4(p),
		BlendWeights:       map[string]float64{"ml": 0, "formula": 1},
		ModelUsed:          ModelFormulaOnly,
		Explanation:        explanation(ModelFormulaOnly, nil),
		CompositeScore:     round4(formulaRes.Composite),
		Percentile:         round4(formulaRes.Percentile),
		PolicyNotes:        append([]string{}, formulaRes.PolicyNotes...),
		Breakdown:          formulaRes.Breakdown,
	}
}

// safeUplift isolates the keyword extraction behind a recover so malformed
// activity text can never take down a prediction.
func safeUplift(items []string, rate float64) (uplift float64) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Interface("panic", r).Msg("misc uplift failed, skipping")
			uplift = 0
		}
	}()
	if len(items) == 0 {
		return 0
	}
	return signals.Uplift(signals.Extract(items), rate)
}

func (b *Blender) fallbackResult(id string, student profile.StudentProfile) Result {
	p := deterministicFallback(student)
	b.metrics.RecordDegraded()

	return Result{
		ID:                 id,
		Probability:        round4(p),
		ConfidenceLower:    round4(math.Max(MinProbability, p-0.10)),
		ConfidenceUpper:    round4(math.Min(MaxProbability, p+0.10)),
		Band:               Band(p),
		MLProbability:      round4(p),
		MLConfidence:       0,
		FormulaProbability: round4(p),
		BlendWeights:       map[string]float64{"ml": 0, "formula": 1},
		ModelUsed:          ModelFallback,
		Explanation:        "Degraded estimate from GPA and test scores only; detailed scoring was unavailable.",
		PolicyNotes:        []string{},
	}
}

func explanation(modelUsed string, weights map[string]float64) string {
	switch modelUsed {
	case ModelFormulaOnly:
		return "Formula-based estimate from the weighted factor composite."
	case ModelMLOnly:
		return "ML model estimate; formula blending disabled."
	default:
		return fmt.Sprintf("Blend of ML model (%.0f%%) and formula composite (%.0f%%).",
			weights["ml"]*100, weights["formula"]*100)
	}
}

// requestDigest canonicalizes the request for cache keys and result IDs.
// Map keys serialize sorted, so identical requests digest identically.
func requestDigest(student profile.StudentProfile, college profile.College, opts Options) []byte {
	payload := struct {
		Student profile.StudentProfile `json:"student"`
		College profile.College        `json:"college"`
		Opts    Options                `json:"opts"`
	}{student, college, opts}

	raw, err := json.Marshal(payload)
	if err != nil {
		raw = []byte(fmt.Sprintf("%+v%+v%+v", student, college, opts))
	}
	sum := sha256.Sum256(raw)
	return sum[:]
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func roundMap(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = round4(v)
	}
	return out
}
