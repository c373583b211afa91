package booking

import "errors"

var ErrIllegalTransition = errors.New("illegal booking flow transition")
