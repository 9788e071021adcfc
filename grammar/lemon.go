//go:build lemon && cgo

package grammar

/*
#cgo LDFLAGS: -lgrammar
#include <stdlib.h>
#include <string.h>

extern char *parse_to_string(char *input);
extern char *linenumber;
extern char *curtoken;
extern char *curtype;

static char *lw_linenumber(void) { return linenumber; }
static char *lw_curtoken(void) { return curtoken; }
static char *lw_curtype(void) { return curtype; }
*/
import "C"

import (
	"strconv"
	"strings"
	"sync"
	"unsafe"
)

// Lemon calls parse_to_string from the generated C parser linked as
// libgrammar. The generated parser keeps its state in globals, so calls
// are serialized.
type Lemon struct {
	mu sync.Mutex
}

func (l *Lemon) Parse(input []byte, diag *Diagnostics) (*Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	text := CString(input)
	cInput := C.CBytes(append(text[:len(text):len(text)], 0))
	defer C.free(cInput)

	res := C.parse_to_string((*C.char)(cInput))
	d := lemonDiagnostics()
	if diag != nil {
		*diag = d
	}
	if res == nil {
		return nil, &ParseError{Diagnostics: d, Message: ErrNilResult.Error()}
	}

	data := unsafe.Slice((*byte)(unsafe.Pointer(res)), int(C.strlen(res)))
	return WrapResult(data, func() { C.free(unsafe.Pointer(res)) }), nil
}

func lemonDiagnostics() Diagnostics {
	var d Diagnostics
	if p := C.lw_linenumber(); p != nil {
		d.Line, _ = strconv.Atoi(strings.TrimSpace(C.GoString(p)))
	}
	if p := C.lw_curtoken(); p != nil {
		d.Token = C.GoString(p)
	}
	if p := C.lw_curtype(); p != nil {
		d.TokenType = C.GoString(p)
	}
	return d
}

func init() {
	lemon := &Lemon{}
	Register("lemon", func(Config) (Parser, error) {
		return lemon, nil
	})
}
