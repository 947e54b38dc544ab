package entities

import "time"

type AttemptOutcome string

const (
	AttemptSucceeded AttemptOutcome = "success"
	AttemptRetryable AttemptOutcome = "retryable"
	AttemptFatal     AttemptOutcome = "fatal"
)

// GenerationAttempt - 絵画モデルへの1回の試行
// Backoff は次の試行までの待ち時間。次がなければゼロ
type GenerationAttempt struct {
	Number  int
	Outcome AttemptOutcome
	Elapsed time.Duration
	Backoff time.Duration
	Err     error
}
