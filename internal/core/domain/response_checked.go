//go:build !txcfast

package domain

// ParseSendResponse classifies the reply of a command submission. The
// default build validates minimum lengths before reading the fixed offsets,
// so a truncated reply surfaces as ErrInternal instead of an out-of-bounds
// read.
func ParseSendResponse(buf *Buffer) (string, error) {
	bytes := buf.Bytes()
	n := len(bytes)

	if n < minResponseLength || (isResult(bytes) && n < minResultLength) {
		return "", NewError(ErrInternal, "SendCommand", "",
			"connector returned an unexpected message "+`"`+buf.String()+`"`)
	}

	if isResult(bytes) && isSuccess(bytes) {
		return buf.String(), nil
	}

	msg := buf.String()
	if isResult(bytes) {
		return "", NewError(ErrInvalidCommand, "SendCommand", "", msg)
	}
	return "", NewError(ErrInternal, "SendCommand", "", msg)
}
