package limits

// Defaults returns the static per-parameter limit table used to fill gaps
// left after aggregating every file in a batch. Values are the process specs
// for the 650V/700V MOSFET families these logs come from.
func Defaults() map[string]Limit {
	return map[string]Limit{
		"BVDSS1":  {Upper: f64(900.0), Lower: f64(660.0), Unit: "v"},
		"BVDSS2":  {Upper: f64(900.0), Lower: f64(660.0), Unit: "v"},
		"DELTABV": {Upper: f64(50.0), Lower: f64(-10.0), Unit: "v"},
		"IDSS1":   {Upper: f64(250.0e-9), Lower: f64(0.0), Unit: "a"},
		"IDSS2":   {Upper: f64(250.0e-9), Lower: f64(0.0), Unit: "a"},
		"IDSS3":   {Upper: f64(250.0e-6), Lower: f64(0.0), Unit: "ua"},
		"VTH":     {Upper: f64(4.0), Lower: f64(3.0), Unit: "v"},
		"RDSON1":  {Upper: f64(365.0e-3), Lower: f64(100.0e-3), Unit: "ohm"},
		"VFSDS":   {Upper: f64(1.0), Lower: f64(0.0), Unit: "v"},
		"IGSS2":   {Upper: f64(300.0e-9), Lower: f64(0.0), Unit: "a"},
		"IGSSR2":  {Upper: f64(300.0e-9), Lower: f64(0.0), Unit: "a"},
	}
}

// FillDefaults completes the aggregated limit map in place: parameters from
// params that are missing entirely get the full default entry, and entries
// with a nil Upper or Lower get just that field filled. After this call every
// parameter with a known default has non-nil bounds; unknown parameters may
// remain open.
func FillDefaults(agg map[string]Limit, params []string) {
	defs := Defaults()
	for _, p := range params {
		def, known := defs[p]
		cur, present := agg[p]
		if !present {
			if known {
				agg[p] = def
			} else {
				agg[p] = Limit{}
			}
			continue
		}
		if !known {
			continue
		}
		if cur.Upper == nil {
			cur.Upper = def.Upper
		}
		if cur.Lower == nil {
			cur.Lower = def.Lower
		}
		if cur.Unit == "" {
			cur.Unit = def.Unit
		}
		agg[p] = cur
	}
}
