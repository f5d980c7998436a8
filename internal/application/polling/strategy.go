package polling

import (
	"context"
	"math"
	"time"

	"hostnet-agent/internal/infrastructure/metrics"

	"github.com/sirupsen/logrus"
)

// Strategy는 폴링 전략 인터페이스입니다
type Strategy interface {
	// NextInterval은 다음 폴링까지의 대기 시간을 반환합니다
	NextInterval(success bool) time.Duration
	// Reset은 폴링 전략을 초기 상태로 리셋합니다
	Reset()
}

// ExponentialBackoffStrategy는 지수 백오프를 구현하는 폴링 전략입니다.
// 컨트롤 플레인 장애 등으로 패스가 연속 실패하면 폴링 간격을 점점
// 늘려 복구 중인 시스템을 더 두드리지 않습니다.
type ExponentialBackoffStrategy struct {
	baseInterval   time.Duration
	maxInterval    time.Duration
	multiplier     float64
	currentBackoff int
	logger         *logrus.Logger
}

// NewExponentialBackoffStrategy는 새로운 지수 백오프 전략을 생성합니다
func NewExponentialBackoffStrategy(
	baseInterval time.Duration,
	maxInterval time.Duration,
	multiplier float64,
	logger *logrus.Logger,
) *ExponentialBackoffStrategy {
	if multiplier <= 1 {
		multiplier = 2.0
	}

	return &ExponentialBackoffStrategy{
		baseInterval:   baseInterval,
		maxInterval:    maxInterval,
		multiplier:     multiplier,
		currentBackoff: 0,
		logger:         logger,
	}
}

// NextInterval은 다음 폴링까지의 대기 시간을 계산합니다
func (s *ExponentialBackoffStrategy) NextInterval(success bool) time.Duration {
	if success {
		// 성공하면 백오프 리셋
		if s.currentBackoff > 0 {
			s.logger.Debug("Resetting backoff after success")
			s.currentBackoff = 0
			metrics.SetBackoffLevel(0)
		}
		return s.baseInterval
	}

	// 실패 시 백오프 증가
	s.currentBackoff++
	metrics.SetBackoffLevel(float64(s.currentBackoff))

	// 지수 백오프 계산
	backoffDuration := float64(s.baseInterval) * math.Pow(s.multiplier, float64(s.currentBackoff-1))
	nextInterval := time.Duration(backoffDuration)

	// 최대 간격 제한
	if nextInterval > s.maxInterval {
		nextInterval = s.maxInterval
	}

	s.logger.WithFields(logrus.Fields{
		"backoff_count": s.currentBackoff,
		"next_interval": nextInterval,
		"max_interval":  s.maxInterval,
	}).Debug("Exponential backoff calculated")

	return nextInterval
}

// Reset은 백오프 카운터를 리셋합니다
func (s *ExponentialBackoffStrategy) Reset() {
	s.currentBackoff = 0
	metrics.SetBackoffLevel(0)
}

// FixedIntervalStrategy는 고정 간격 폴링 전략입니다
type FixedIntervalStrategy struct {
	interval time.Duration
}

// NewFixedIntervalStrategy는 새로운 고정 간격 전략을 생성합니다
func NewFixedIntervalStrategy(interval time.Duration) *FixedIntervalStrategy {
	return &FixedIntervalStrategy{interval: interval}
}

// NextInterval은 항상 같은 간격을 반환합니다
func (s *FixedIntervalStrategy) NextInterval(success bool) time.Duration {
	return s.interval
}

// Reset은 아무 일도 하지 않습니다
func (s *FixedIntervalStrategy) Reset() {}

// PollingController는 폴링을 관리하는 컨트롤러입니다
type PollingController struct {
	strategy Strategy
	ticker   *time.Ticker
	logger   *logrus.Logger
}

// NewPollingController는 새로운 폴링 컨트롤러를 생성합니다
func NewPollingController(strategy Strategy, logger *logrus.Logger) *PollingController {
	return &PollingController{
		strategy: strategy,
		logger:   logger,
	}
}

// Start는 폴링을 시작합니다. 작업은 기동 직후 한 번 실행되고, 이후
// 전략이 계산한 간격으로 반복됩니다.
func (c *PollingController) Start(ctx context.Context, task func(context.Context) error) error {
	runOnce := func() time.Duration {
		err := task(ctx)
		if err != nil {
			c.logger.WithError(err).Error("Polling task failed")
		}
		return c.strategy.NextInterval(err == nil)
	}

	c.ticker = time.NewTicker(runOnce())
	defer c.ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-c.ticker.C:
			c.ticker.Reset(runOnce())
		}
	}
}
