package types

// TradePlan is a derived, read-only playbook for one asset, combining its
// latest signal, its backtest statistics and a risk-capped sizing model into
// concrete order parameters. Plans are rebuilt on demand, never persisted as
// mutable state.
type TradePlan struct {
	Asset          string         `json:"asset"`
	EntryRules     EntryRules     `json:"entry_rules"`
	ExitRules      ExitRules      `json:"exit_rules"`
	PositionSizing PositionSizing `json:"position_sizing"`
	Conviction     Conviction     `json:"conviction"`
	BacktestStats  BacktestStats  `json:"backtest_stats"`
	Execution      ExecutionMode  `json:"execution_mode"`
	Computed       ComputedValues `json:"computed_values"`
	Notes          string         `json:"notes"`
}

// EntryRules describes how a position is opened.
type EntryRules struct {
	Primary     string           `json:"primary"`
	Alternative string           `json:"alternative"`
	Conditions  SignalConditions `json:"signal_conditions"`
}

// SignalConditions spells out the signal definitions backing the entry rules.
type SignalConditions struct {
	Trend      string `json:"trend"`
	Momentum   string `json:"momentum"`
	RS         string `json:"rs"`
	FullWeight string `json:"full_weight_condition"`
	HalfWeight string `json:"half_weight_condition"`
}

// ExitRules describes stops, targets and hard exits.
type ExitRules struct {
	ProfitTaking string `json:"profit_taking"`
	StopLoss     string `json:"stop_loss"`
	TrailingStop string `json:"trailing_stop"`
	HardExit     string `json:"hard_exit_conditions"`
}

// PositionSizing carries the risk-cap parameters used for sizing.
type PositionSizing struct {
	FullWeight      float64 `json:"full_weight"`
	HalfWeight      float64 `json:"half_weight"`
	RiskCapPercent  float64 `json:"risk_cap_percent"`
	RiskCalculation string  `json:"risk_calculation"`
}

// Conviction is the qualitative confidence tier assigned from backtest
// statistics. It describes expected reliability and is not used by the
// simulator.
type Conviction struct {
	High      float64 `json:"high_conviction"`
	Medium    float64 `json:"medium_conviction"`
	Rationale string  `json:"rationale"`
}

// BacktestStats is the statistics excerpt embedded in a plan.
type BacktestStats struct {
	TotalReturnPercent float64 `json:"total_return_percent"`
	SharpeRatio        float64 `json:"sharpe_ratio"`
	WinRatePercent     float64 `json:"win_rate_percent"`
	MaxDrawdownPercent float64 `json:"max_drawdown_percent"`
	TradingDays        int     `json:"trading_days"`
	ExpectedReturn     string  `json:"expected_return"`
}

// ExecutionMode selects how entries are worked.
type ExecutionMode struct {
	SignalAtClose      bool    `json:"signal_at_close"`
	PullbackToMALong   bool    `json:"pullback_to_ma_long"`
	ExtendedThreshold  float64 `json:"extended_threshold"`
	LimitDurationHours int     `json:"limit_order_duration_hours"`
}

// ComputedValues are the concrete numbers behind a plan: latest market data,
// signal status, share counts, stops and targets.
type ComputedValues struct {
	// Latest market data.
	CurrentPrice float64 `json:"current_price"`
	MALong       float64 `json:"ma_long"`
	MAShort      float64 `json:"ma_short"`
	RSMAShort    float64 `json:"rs_ma_short"`
	RSMALong     float64 `json:"rs_ma_long"`
	ATR          float64 `json:"atr_14"`
	Volatility   float64 `json:"volatility"`

	// Signal status.
	TrendSignal    bool    `json:"trend_signal"`
	MomentumSignal bool    `json:"momentum_signal"`
	RSSignal       bool    `json:"rs_signal"`
	AllSignals     bool    `json:"all_signals"`
	PartialSignals bool    `json:"partial_signals"`
	SignalStrength float64 `json:"signal_strength"`

	// Position sizing.
	StopPrice           float64 `json:"stop_price"`
	RiskPerShare        float64 `json:"risk_per_share"`
	MaxSharesByRisk     float64 `json:"max_shares_by_risk"`
	MaxSharesByPosition float64 `json:"max_shares_by_position"`
	RecommendedShares   uint64  `json:"recommended_shares"`
	PositionValue       float64 `json:"position_value"`
	PositionPercent     float64 `json:"position_percent"`

	// Profit taking.
	ProfitTarget        float64 `json:"profit_target"`
	ProfitTargetPercent float64 `json:"profit_target_percent"`
	ScaleOutShares      uint64  `json:"scale_out_shares"`
	RemainingShares     uint64  `json:"remaining_shares"`
	ScaleOutValue       float64 `json:"scale_out_value"`

	// Stop loss levels.
	InitialStop     float64 `json:"initial_stop"`
	StopLossPercent float64 `json:"stop_loss_percent"`
	TrailingStop    float64 `json:"trailing_stop"`
	StopDistanceATR float64 `json:"stop_distance_atr"`

	// Risk management.
	PortfolioRisk   float64 `json:"portfolio_risk"`
	RiskRewardRatio float64 `json:"risk_reward_ratio"`
	MaxLoss         float64 `json:"max_loss"`
	MaxGain         float64 `json:"max_gain"`

	// Execution parameters.
	IsExtended      bool    `json:"is_extended"`
	PullbackPrice   float64 `json:"pullback_price"`
	ExtendedPercent float64 `json:"extended_percent"`
}
