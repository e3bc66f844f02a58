package perunchannel

// HashType mirrors CKB's script hash-type discriminant. It is a one-byte
// schema field wherever a Script is referenced by code hash (PCLS/PFLS
// lookups in ChannelConstants).
type HashType uint8

const (
	HashTypeData HashType = iota
	HashTypeType
	HashTypeData1
)
