package catalog

// Ownership holds the ten independently-inheriting governance fields. Every
// field is nullable: a nil pointer means "not defined at this node".
type Ownership struct {
	AccountableOwner *string `yaml:"accountable_owner,omitempty" json:"accountable_owner,omitempty"`
	DataSpecialist   *string `yaml:"data_specialist,omitempty" json:"data_specialist,omitempty"`
	SupportChannel   *string `yaml:"support_channel,omitempty" json:"support_channel,omitempty"`
	ADOP             *string `yaml:"adop,omitempty" json:"adop,omitempty"`
	ADS              *string `yaml:"ads,omitempty" json:"ads,omitempty"`
	ADAL             *string `yaml:"adal,omitempty" json:"adal,omitempty"`
	ADOPName         *string `yaml:"adop_name,omitempty" json:"adop_name,omitempty"`
	ADSName          *string `yaml:"ads_name,omitempty" json:"ads_name,omitempty"`
	ADALName         *string `yaml:"adal_name,omitempty" json:"adal_name,omitempty"`
	UI               *string `yaml:"ui,omitempty" json:"ui,omitempty"`
}

// ownershipField ties a field name to a getter/setter pair over *Ownership,
// letting the inheritance walk (ResolveOwnership) and the flat rendering
// (ResolvedOwnership.Flat) share one field list instead of duplicating ten
// near-identical branches.
type ownershipField struct {
	name string
	get  func(*Ownership) *string
	set  func(*Ownership, *string)
}

// OwnershipFields lists the ten governance fields in a fixed, stable order.
var OwnershipFields = []ownershipField{
	{"accountable_owner", func(o *Ownership) *string { return o.AccountableOwner }, func(o *Ownership, v *string) { o.AccountableOwner = v }},
	{"data_specialist", func(o *Ownership) *string { return o.DataSpecialist }, func(o *Ownership, v *string) { o.DataSpecialist = v }},
	{"support_channel", func(o *Ownership) *string { return o.SupportChannel }, func(o *Ownership, v *string) { o.SupportChannel = v }},
	{"adop", func(o *Ownership) *string { return o.ADOP }, func(o *Ownership, v *string) { o.ADOP = v }},
	{"ads", func(o *Ownership) *string { return o.ADS }, func(o *Ownership, v *string) { o.ADS = v }},
	{"adal", func(o *Ownership) *string { return o.ADAL }, func(o *Ownership, v *string) { o.ADAL = v }},
	{"adop_name", func(o *Ownership) *string { return o.ADOPName }, func(o *Ownership, v *string) { o.ADOPName = v }},
	{"ads_name", func(o *Ownership) *string { return o.ADSName }, func(o *Ownership, v *string) { o.ADSName = v }},
	{"adal_name", func(o *Ownership) *string { return o.ADALName }, func(o *Ownership, v *string) { o.ADALName = v }},
	{"ui", func(o *Ownership) *string { return o.UI }, func(o *Ownership, v *string) { o.UI = v }},
}

// ResolvedField pairs a resolved value with the path at which it was
// defined (provenance); both are nullable.
type ResolvedField struct {
	Value  *string `json:"value"`
	Source *string `json:"source"`
}

// ResolvedOwnership is the output of an ownership inheritance walk.
type ResolvedOwnership struct {
	AccountableOwner ResolvedField `json:"accountable_owner"`
	DataSpecialist   ResolvedField `json:"data_specialist"`
	SupportChannel   ResolvedField `json:"support_channel"`
	ADOP             ResolvedField `json:"adop"`
	ADS              ResolvedField `json:"ads"`
	ADAL             ResolvedField `json:"adal"`
	ADOPName         ResolvedField `json:"adop_name"`
	ADSName          ResolvedField `json:"ads_name"`
	ADALName         ResolvedField `json:"adal_name"`
	UI               ResolvedField `json:"ui"`
}

func resolvedFieldPtrs(ro *ResolvedOwnership) []*ResolvedField {
	return []*ResolvedField{
		&ro.AccountableOwner, &ro.DataSpecialist, &ro.SupportChannel,
		&ro.ADOP, &ro.ADS, &ro.ADAL,
		&ro.ADOPName, &ro.ADSName, &ro.ADALName, &ro.UI,
	}
}

// ResolveOwnership walks an ancestor chain (root to self, inclusive) and
// returns the resolved ownership: for each of the ten fields, the value
// overwrites (with provenance) whenever a node in the chain defines it.
// The walk is order-dependent only in the sense that later (closer)
// ancestors win, which makes the result independent of registration order
// for a fixed chain.
func ResolveOwnership(chain []*Node) ResolvedOwnership {
	var result ResolvedOwnership
	fieldPtrs := resolvedFieldPtrs(&result)

	for _, node := range chain {
		for i, f := range OwnershipFields {
			if v := f.get(&node.Ownership); v != nil {
				val := *v
				path := node.Path
				fieldPtrs[i].Value = &val
				fieldPtrs[i].Source = &path
			}
		}
	}
	return result
}

// Flat renders the resolved ownership as the flat "<field>"/"<field>_source"
// map expected in the HTTP resolve/describe/lineage response bodies.
func (ro ResolvedOwnership) Flat() map[string]interface{} {
	out := make(map[string]interface{}, len(OwnershipFields)*2)
	fieldPtrs := resolvedFieldPtrs(&ro)
	for i, f := range OwnershipFields {
		rf := fieldPtrs[i]
		if rf.Value != nil {
			out[f.name] = *rf.Value
		} else {
			out[f.name] = nil
		}
		if rf.Source != nil {
			out[f.name+"_source"] = *rf.Source
		} else {
			out[f.name+"_source"] = nil
		}
	}
	return out
}
