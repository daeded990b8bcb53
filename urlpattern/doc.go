// Package urlpattern compiles execute method URL patterns into regular
// expressions and analyzes execute method names.
//
// # Pattern syntax
//
// A pattern is a '/'-joined list of segments without padding slashes.
// A segment is a literal, an unnamed placeholder {} or the keyword mark @word:
//
//	sea/{}          -> ^sea/([0-9]+)$        for sea(int)
//	{}/@word/@word  -> ^([^/]+)/sea/land$    for seaLand(string)
//
// Placeholders bind path parameters by position. The capture group is
// selected by the parameter type: integer kinds get [0-9]+, float kinds a
// decimal class, uuid.UUID a UUID class and everything else [^/]+. A numeric
// execute and a string execute may therefore share one URL depth.
//
// When no pattern is declared one is derived: the method name (except for
// index) followed by one {} per path parameter.
//
// # Method names
//
// A method name may carry an HTTP verb before '$':
//
//	get$index  -> GET, index
//	post$sea   -> POST, sea
//	seaLand    -> any verb, seaLand
//
// Every definition problem is reported as a *deferr.Error when the execute
// is analyzed, so a broken pattern never reaches request time.
package urlpattern
