package attribution

import (
	"github.com/YuminosukeSato/topfactors/core/parallel"
	"github.com/YuminosukeSato/topfactors/pkg/log"
	"github.com/YuminosukeSato/topfactors/report"
)

// Option は要因分析の呼び出しを設定する関数
type Option func(*settings)

type settings struct {
	logger            log.Logger
	parallelThreshold int
	reporter          report.Reporter
	debug             bool
}

func newSettings(opts []Option) *settings {
	s := &settings{parallelThreshold: parallel.DefaultThreshold}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.GetLoggerWithName("attribution")
	}
	if s.reporter == nil {
		if s.debug {
			s.reporter = report.NewLogReporter(s.logger)
		} else {
			s.reporter = report.Discard
		}
	}
	return s
}

// WithLogger sets the logger for the call.
func WithLogger(logger log.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithParallelThreshold は行の順位付けを複数のゴルーチンに分割する行数の閾値を設定する。
// 行数がこの値を超えた場合のみ並列化する。結果は逐次処理と同じになる。
func WithParallelThreshold(rows int) Option {
	return func(s *settings) {
		s.parallelThreshold = rows
	}
}

// WithReporter sets where debug diagnostics are written.
func WithReporter(r report.Reporter) Option {
	return func(s *settings) {
		s.reporter = r
	}
}

// WithDebug は係数・入力・寄与度・上位要因の先頭部分を Reporter に出力する。
// Reporter 未指定時はデバッグログに出力する。戻り値には影響しない。
func WithDebug(debug bool) Option {
	return func(s *settings) {
		s.debug = debug
	}
}
