// Command libgrammar builds a C shared library that exposes the configured
// parser to managed runtimes:
//
//	go build -buildmode=c-shared -o libgrammarshim.so ./cmd/libgrammar
//
// The library reads LEMONWRAP_CONFIG (or ./lemonwrap.yaml) on first use.
//
//	char *lemonwrap_parse_to_string(char *input, char **err);
//	void lemonwrap_free(char *p);
//
// On success the result is returned and *err is set to NULL. On failure
// NULL is returned and *err holds the message. Both strings are allocated
// with malloc and must be passed to lemonwrap_free. err may be NULL when
// the caller does not want the message.
package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"unsafe"

	_ "github.com/tliron/commonlog/simple"
)

var lib = newBinding(openConfigured)

//export lemonwrap_parse_to_string
func lemonwrap_parse_to_string(input *C.char, errOut **C.char) *C.char {
	if errOut != nil {
		*errOut = nil
	}

	var in *string
	if input != nil {
		s := C.GoString(input)
		in = &s
	}

	out, err := lib.parse(in)
	if err != nil {
		log.Errorf("parse: %s", err)
		if errOut != nil {
			*errOut = C.CString(err.Error())
		}
		return nil
	}
	return C.CString(out)
}

//export lemonwrap_free
func lemonwrap_free(p *C.char) {
	C.free(unsafe.Pointer(p))
}

func main() {}
