package config

// ConfigFileName is the project configuration file searched for by FindConfig.
const ConfigFileName = "rootscope.yaml"

// ConfigFileNames are all recognized configuration file names, in search order
var ConfigFileNames = []string{"rootscope.yaml", "rootscope.yml"}

// ScriptExt is the extension of scope script files.
const ScriptExt = ".yaml"

// SymbolTableSize is the number of hash buckets in every scope's local table.
const SymbolTableSize = 64

// Resolver limits
const (
	DefaultCompletionLimit = 64
	// NoParentIndex marks a capture resolved directly from the enclosing
	// function's own local slot.
	NoParentIndex = -1
	// NoCaptureIndex is the capture index of a symbol that is not a captured copy.
	NoCaptureIndex = -1
)

// Collector defaults
const (
	DefaultRootStackCapacity = 256
	DefaultCollectEvery      = 1024
	StressCollectEvery       = 1
)

// Default paths
const (
	DefaultCheckpointPath = ".rootscope/checkpoints.db"
	MemoryCheckpointPath  = ":memory:"
)

// Logger names
const (
	LogSymbols    = "rootscope.symbols"
	LogGC         = "rootscope.gc"
	LogRuntime    = "rootscope.runtime"
	LogModules    = "rootscope.modules"
	LogCheckpoint = "rootscope.checkpoint"
	LogLSP        = "rootscope.lsp"
)

// Array method names
const (
	PushMethod         = "push"
	InsertMethod       = "insert"
	PopMethod          = "pop"
	SwapMethod         = "swap"
	SliceMutMethod     = "slice!"
	SliceMethod        = "slice"
	SortMethod         = "sort"
	UniqMethod         = "uniq"
	SumMethod          = "sum"
	JoinMethod         = "join"
	ConsumeWhileMethod = "consumeWhile"
	GroupsOfMethod     = "groupsOf"
	GroupByMethod      = "groupBy"
	GroupMethod        = "group"
	WindowMethod       = "window"
	TakeMethod         = "take"
	TakeMutMethod      = "take!"
	DropMethod         = "drop"
	DropMutMethod      = "drop!"
	TakeWhileMethod    = "takeWhile"
	DropWhileMethod    = "dropWhile"
	MinByMethod        = "minBy"
	MaxByMethod        = "maxBy"
	MapMethod          = "map"
	FilterMethod       = "filter"
	IntersperseMethod  = "intersperse"
	ZipMethod          = "zip"
	ReverseMethod      = "reverse"
	LengthMethod       = "len"
	PartitionMethod    = "partition"
	PartitionMutMethod = "partition!"
	SplitMethod        = "split"
	SetMethod          = "set"
	TallyMethod        = "tally"
	FoldMethod         = "fold"
	FoldRightMethod    = "foldr"
	ScanMethod         = "scan"
	ScanMutMethod      = "scan!"
)

// Dict method names
const (
	PutMethod    = "put"
	GetMethod    = "get"
	KeysMethod   = "keys"
	ValuesMethod = "values"
)

// Keyword argument names understood by sort
const (
	ByKwarg   = "by"
	CmpKwarg  = "cmp"
	DescKwarg = "desc"
)
