package engine

// Executor is a dynamics stage the step driver can run serially or on
// the worker pool. The two forms must be observably equivalent up to
// floating point reduction order.
type Executor interface {
	Exec(dt float64)
	ParallelExec(dt float64)
}

// Ranger enumerates the particle slots a stage applies to.
type Ranger interface {
	Each(fn Func, dt float64)
	EachParallel(fn Func, dt float64)
}

// IndexRange covers [0, Size()), with the size resolved at call time so
// stages pick up particles realized since the previous step.
type IndexRange struct {
	Size func() int
}

func (r IndexRange) Each(fn Func, dt float64)         { Each(r.Size(), fn, dt) }
func (r IndexRange) EachParallel(fn Func, dt float64) { EachParallel(r.Size(), fn, dt) }

// IndexList covers a fixed index list. Whether the entries are physical
// slots or stable ids to be resolved per call is the operator's business.
type IndexList struct {
	IDs []int
}

func (r IndexList) Each(fn Func, dt float64)         { EachList(r.IDs, fn, dt) }
func (r IndexList) EachParallel(fn Func, dt float64) { EachListParallel(r.IDs, fn, dt) }

// CellRange covers the current contents of a fixed cell subset.
type CellRange struct {
	Cells []int
	List  CellLister
}

func (r CellRange) Each(fn Func, dt float64) {
	for _, c := range r.Cells {
		for _, i := range r.List.Cell(c) {
			fn(i, dt)
		}
	}
}

func (r CellRange) EachParallel(fn Func, dt float64) {
	parallelRange(len(r.Cells), minChunkCell, func(start, end int) {
		for l := start; l < end; l++ {
			for _, i := range r.List.Cell(r.Cells[l]) {
				fn(i, dt)
			}
		}
	})
}

// SplitRange runs the two-pass half-step sweep over a split grid.
type SplitRange struct {
	List SplitLister
}

func (r SplitRange) Each(fn Func, dt float64)         { EachSplit(r.List, fn, dt) }
func (r SplitRange) EachParallel(fn Func, dt float64) { EachSplitParallel(r.List, fn, dt) }

// SimpleDynamics is a stage with a single per-particle update and an
// optional setup hook run once per call before the sweep.
type SimpleDynamics struct {
	Range  Ranger
	Setup  func(dt float64)
	Update Func
}

func (d *SimpleDynamics) Exec(dt float64) {
	if d.Setup != nil {
		d.Setup(dt)
	}
	d.Range.Each(d.Update, dt)
}

func (d *SimpleDynamics) ParallelExec(dt float64) {
	if d.Setup != nil {
		d.Setup(dt)
	}
	d.Range.EachParallel(d.Update, dt)
}

// InteractionDynamics runs the fixed phase order
//
//	setup, initialize, pre-processes, interact, post-processes, update
//
// over one Range. Interact is the pairwise phase; the pre and post lists
// wrap around it and nothing else. Nil phases are skipped; every phase
// sees the same dt. The lists must not be mutated while a call is
// running.
type InteractionDynamics struct {
	Range      Ranger
	Setup      func(dt float64)
	Initialize Func
	Interact   Func
	Update     Func

	pre  []Executor
	post []Executor
}

// AddPre appends e to the stages run immediately before Interact.
// Insertion order is execution order.
func (d *InteractionDynamics) AddPre(e Executor) { d.pre = append(d.pre, e) }

// AddPost appends e to the stages run immediately after Interact.
func (d *InteractionDynamics) AddPost(e Executor) { d.post = append(d.post, e) }

func (d *InteractionDynamics) Exec(dt float64)         { d.run(dt, false) }
func (d *InteractionDynamics) ParallelExec(dt float64) { d.run(dt, true) }

func (d *InteractionDynamics) run(dt float64, parallel bool) {
	if d.Setup != nil {
		d.Setup(dt)
	}
	each := d.Range.Each
	if parallel {
		each = d.Range.EachParallel
	}
	if d.Initialize != nil {
		each(d.Initialize, dt)
	}
	for _, e := range d.pre {
		runExecutor(e, dt, parallel)
	}
	each(d.Interact, dt)
	for _, e := range d.post {
		runExecutor(e, dt, parallel)
	}
	if d.Update != nil {
		each(d.Update, dt)
	}
}

func runExecutor(e Executor, dt float64, parallel bool) {
	if parallel {
		e.ParallelExec(dt)
		return
	}
	e.Exec(dt)
}

// ReduceDynamics folds a per-particle quantity into a single value per
// call. Init must be an identity for Combine; Finish, when set, maps the
// folded value before it is returned.
type ReduceDynamics[T any] struct {
	Size    func() int
	Setup   func(dt float64)
	Init    T
	Fn      ReduceFunc[T]
	Combine Combine[T]
	Finish  func(T) T
}

func (d *ReduceDynamics[T]) Exec(dt float64) T {
	if d.Setup != nil {
		d.Setup(dt)
	}
	return d.finish(Reduce(d.Size(), d.Init, d.Fn, d.Combine, dt))
}

func (d *ReduceDynamics[T]) ParallelExec(dt float64) T {
	if d.Setup != nil {
		d.Setup(dt)
	}
	return d.finish(ReduceParallel(d.Size(), d.Init, d.Fn, d.Combine, dt))
}

func (d *ReduceDynamics[T]) finish(v T) T {
	if d.Finish != nil {
		return d.Finish(v)
	}
	return v
}
