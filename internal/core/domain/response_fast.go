//go:build txcfast

package domain

// ParseSendResponse classifies the reply of a command submission. This
// build trusts the vendor contract on minimum reply lengths and reads only
// the two fixed offsets on the happy path.
func ParseSendResponse(buf *Buffer) (string, error) {
	result := buf.byteAt(definingByte) == 'r'

	if result && buf.byteAt(resultFlagByte) == 't' {
		return buf.String(), nil
	}

	msg := buf.String()
	if result {
		return "", NewError(ErrInvalidCommand, "SendCommand", "", msg)
	}
	return "", NewError(ErrInternal, "SendCommand", "", msg)
}
