package claim

import "strings"

// TxErrorKind classifies a failed claim transaction so the caller can show a
// distinct message for user rejection versus generic failures.
type TxErrorKind int

const (
	TxErrorUnknown TxErrorKind = iota
	TxErrorRejected
	TxErrorReverted
	TxErrorTimeout
)

var rejectionKeywords = []string{
	"user rejected",
	"user denied",
	"rejected by user",
	"request rejected",
	"cancelled",
	"canceled",
}

var revertKeywords = []string{
	"execution reverted",
	"revert",
}

var timeoutKeywords = []string{
	"deadline exceeded",
	"timed out",
	"timeout",
}

// ClassifyTxError inspects the error text for known keywords. A nil error is
// TxErrorUnknown.
func ClassifyTxError(err error) TxErrorKind {
	if err == nil {
		return TxErrorUnknown
	}
	text := strings.ToLower(err.Error())
	for _, kw := range rejectionKeywords {
		if strings.Contains(text, kw) {
			return TxErrorRejected
		}
	}
	for _, kw := range revertKeywords {
		if strings.Contains(text, kw) {
			return TxErrorReverted
		}
	}
	for _, kw := range timeoutKeywords {
		if strings.Contains(text, kw) {
			return TxErrorTimeout
		}
	}
	return TxErrorUnknown
}

// Message returns the user-facing message for the error kind.
func (k TxErrorKind) Message() string {
	switch k {
	case TxErrorRejected:
		return "transaction was cancelled in the wallet"
	case TxErrorReverted:
		return "claim transaction reverted on chain"
	case TxErrorTimeout:
		return "claim transaction timed out, check the explorer before retrying"
	default:
		return "claim transaction failed"
	}
}
