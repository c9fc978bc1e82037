package domain

// A command submission returns one of three message shapes:
//
//	success:   <result success="true" .../>
//	failure:   <result success="false">...</result>
//	exception: <error>...</error>
//
// The byte offsets below are part of the vendor contract and are not
// configurable: the shape is decided by the byte at offset 1 ('r' for a
// <result>) and the success flag at offset 17 ('t' for "true").
const (
	minResponseLength = 15
	minResultLength   = 23
	definingByte      = 1
	resultFlagByte    = 17
)

func isResult(b []byte) bool {
	return b[definingByte] == 'r'
}

func isSuccess(b []byte) bool {
	return b[resultFlagByte] == 't'
}
