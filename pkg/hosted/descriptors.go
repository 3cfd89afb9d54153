package hosted

// QueryDescriptor is the hosted-side search request object. Scripts build
// one field by field; the bridge reads it back through accessor descriptors,
// never by touching fields.
type QueryDescriptor struct {
	column       string
	key          []float32
	k            int32
	nprobes      int32
	ef           *Optional
	refineFactor *Optional
	distanceType string
	useIndex     bool
}

// NewQueryDescriptor creates a descriptor with empty optional fields.
func NewQueryDescriptor() *QueryDescriptor {
	return &QueryDescriptor{
		ef:           OptionalEmpty(),
		refineFactor: OptionalEmpty(),
	}
}

func (q *QueryDescriptor) SetColumn(s string)       { q.column = s }
func (q *QueryDescriptor) SetKey(v []float32)       { q.key = append([]float32(nil), v...) }
func (q *QueryDescriptor) SetK(k int32)             { q.k = k }
func (q *QueryDescriptor) SetNProbes(n int32)       { q.nprobes = n }
func (q *QueryDescriptor) SetEf(n int32)            { q.ef = OptionalOf(NewInteger(n)) }
func (q *QueryDescriptor) SetRefineFactor(n int32)  { q.refineFactor = OptionalOf(NewInteger(n)) }
func (q *QueryDescriptor) SetDistanceType(s string) { q.distanceType = s }
func (q *QueryDescriptor) SetUseIndex(b bool)       { q.useIndex = b }

// Accessors, invoked reflectively via Env.Invoke.

func (q *QueryDescriptor) Column() *Str         { return NewString(q.column) }
func (q *QueryDescriptor) Key() *FloatArray     { return NewFloatArray(q.key) }
func (q *QueryDescriptor) K() int32             { return q.k }
func (q *QueryDescriptor) NProbes() int32       { return q.nprobes }
func (q *QueryDescriptor) Ef() *Optional        { return q.ef }
func (q *QueryDescriptor) RefineFactor() *Optional { return q.refineFactor }
func (q *QueryDescriptor) DistanceType() *Str   { return NewString(q.distanceType) }
func (q *QueryDescriptor) UseIndex() bool       { return q.useIndex }

func (*QueryDescriptor) hostedRef() {}

// IndexParamsDescriptor is the hosted-side index build request. All tuning
// fields are optional; the engine fills defaults for absent ones.
type IndexParamsDescriptor struct {
	metricType    string
	numPartitions *Optional
	numSubVectors *Optional
	numBits       *Optional
	maxIterations *Optional
	sampleRate    *Optional
}

// NewIndexParamsDescriptor creates a descriptor with all optionals empty.
func NewIndexParamsDescriptor() *IndexParamsDescriptor {
	return &IndexParamsDescriptor{
		numPartitions: OptionalEmpty(),
		numSubVectors: OptionalEmpty(),
		numBits:       OptionalEmpty(),
		maxIterations: OptionalEmpty(),
		sampleRate:    OptionalEmpty(),
	}
}

func (p *IndexParamsDescriptor) SetMetricType(s string)   { p.metricType = s }
func (p *IndexParamsDescriptor) SetNumPartitions(n int32) { p.numPartitions = OptionalOf(NewInteger(n)) }
func (p *IndexParamsDescriptor) SetNumSubVectors(n int32) { p.numSubVectors = OptionalOf(NewInteger(n)) }
func (p *IndexParamsDescriptor) SetNumBits(n int32)       { p.numBits = OptionalOf(NewInteger(n)) }
func (p *IndexParamsDescriptor) SetMaxIterations(n int32) { p.maxIterations = OptionalOf(NewInteger(n)) }
func (p *IndexParamsDescriptor) SetSampleRate(n int32)    { p.sampleRate = OptionalOf(NewInteger(n)) }

func (p *IndexParamsDescriptor) MetricType() *Str        { return NewString(p.metricType) }
func (p *IndexParamsDescriptor) NumPartitions() *Optional { return p.numPartitions }
func (p *IndexParamsDescriptor) NumSubVectors() *Optional { return p.numSubVectors }
func (p *IndexParamsDescriptor) NumBits() *Optional       { return p.numBits }
func (p *IndexParamsDescriptor) MaxIterations() *Optional { return p.maxIterations }
func (p *IndexParamsDescriptor) SampleRate() *Optional    { return p.sampleRate }

func (*IndexParamsDescriptor) hostedRef() {}
