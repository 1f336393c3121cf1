package infra

// Signed is a constraint that permits any signed integer type.
type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integer is a constraint that permits any integer type.
type Integer interface {
	Signed | Unsigned
}

// Float is a constraint that permits any floating-point type.
type Float interface {
	~float32 | ~float64
}

// String is a constraint that permits any string type.
type String interface {
	~string
}

// OrderedKey is the key domain of the ordered containers.
// Every member type carries a total order through the builtin
// comparison operators.
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | String
}
