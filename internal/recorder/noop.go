package recorder

import "cryptomomentum/internal/types"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *RunInfo) error                                 { return nil }
func (n *NoopRecorder) RecordPortfolio(_ string, _ types.PortfolioMetrics) error   { return nil }
func (n *NoopRecorder) RecordAssetStats(_ string, _ []types.Statistics) error      { return nil }
func (n *NoopRecorder) RecordPlans(_ string, _ []types.TradePlan) error            { return nil }
func (n *NoopRecorder) Close() error                                               { return nil }
