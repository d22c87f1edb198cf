package models

// NotAvailable is the text sentinel stored when a model query fails.
const NotAvailable = "N/A"

// BeamRecord is one persisted row per structural element tagged by the operator.
type BeamRecord struct {
	// UniqueID is the stable identifier from the structural model.
	UniqueID string `json:"unique_id"`
	// Label is the model label.
	Label string `json:"label"`
	// GUID is the globally unique id reported by the model.
	GUID string `json:"guid"`
	// Story is the story reported by the model.
	Story string `json:"story"`
	// SelectedStory is the story chosen by the operator for classification.
	SelectedStory string `json:"selected_story"`
	// SectionName is the frame section name.
	SectionName string `json:"section_name"`
	// Material is the section material.
	Material string `json:"material"`
	// Scenario is the scenario tag.
	Scenario Scenario `json:"scenario"`
	// GroupID is the group number within the scenario.
	GroupID int `json:"group_id"`
	// OrderInGroup is the 1-based position within the group.
	OrderInGroup int `json:"order_in_group"`
	// Settings holds the design parameters shared by the group.
	Settings Settings `json:"settings"`
	// Geometry holds geometry and section properties.
	Geometry Geometry `json:"geometry"`
	// Position is where the layout placed the beam (nil until layout ran).
	Position *ExcelPosition `json:"excel_position,omitempty"`
}

// ExcelPosition is the top-left cell of a beam block in the report.
type ExcelPosition struct {
	// Sheet is the sheet name.
	Sheet string `json:"sheet"`
	// Column is the column letter.
	Column string `json:"column"`
	// Row is the 1-based row number.
	Row int `json:"row"`
}

// Geometry groups the geometry and section data fetched from the model.
// The values are opaque to the core and persisted as structured text.
type Geometry struct {
	// Length is the frame length.
	Length float64 `json:"length" yaml:"length"`
	// Joints are the end joint identifiers.
	Joints EndJoints `json:"joints" yaml:"joints"`
	// Section holds cross-section dimensions.
	Section SectionProperties `json:"section" yaml:"section"`
	// Modifiers holds the property modifiers.
	Modifiers Modifiers `json:"modifiers" yaml:"modifiers"`
	// Releases holds the end releases.
	Releases EndReleases `json:"releases" yaml:"releases"`
	// Offsets holds the end length offsets.
	Offsets EndOffsets `json:"offsets" yaml:"offsets"`
	// Steel holds the reinforcement steel properties.
	Steel SteelProperties `json:"steel" yaml:"steel"`
}

// EndJoints identifies the joints at both ends of a frame.
type EndJoints struct {
	I string `json:"i" yaml:"i"`
	J string `json:"j" yaml:"j"`
}

// SectionProperties describes the cross-section.
type SectionProperties struct {
	// Type is the section shape (e.g. Rectangle, Tee).
	Type string `json:"type" yaml:"type"`
	// Depth is the section depth.
	Depth float64 `json:"depth" yaml:"depth"`
	// Width is the web width.
	Width float64 `json:"width" yaml:"width"`
	// EffectiveWidth is the effective flange width.
	EffectiveWidth float64 `json:"beff" yaml:"beff"`
	// FlangeThickness is the flange thickness.
	FlangeThickness float64 `json:"flange_thickness" yaml:"flange_thickness"`
	// CoverTop is the effective top cover.
	CoverTop float64 `json:"ceff_top" yaml:"ceff_top"`
	// CoverBottom is the effective bottom cover.
	CoverBottom float64 `json:"ceff_bottom" yaml:"ceff_bottom"`
}

// Modifiers are the frame property modifiers.
type Modifiers struct {
	Area    float64 `json:"area" yaml:"area"`
	As2     float64 `json:"as2" yaml:"as2"`
	As3     float64 `json:"as3" yaml:"as3"`
	Torsion float64 `json:"torsion" yaml:"torsion"`
	I22     float64 `json:"i22" yaml:"i22"`
	I33     float64 `json:"i33" yaml:"i33"`
	Mass    float64 `json:"mass" yaml:"mass"`
	Weight  float64 `json:"weight" yaml:"weight"`
}

// Release lists the released degrees of freedom at one end.
type Release struct {
	Axial    bool `json:"axial" yaml:"axial"`
	Shear2   bool `json:"shear2" yaml:"shear2"`
	Shear3   bool `json:"shear3" yaml:"shear3"`
	Torsion  bool `json:"torsion" yaml:"torsion"`
	Moment22 bool `json:"moment22" yaml:"moment22"`
	Moment33 bool `json:"moment33" yaml:"moment33"`
}

// EndReleases are the releases at both frame ends.
type EndReleases struct {
	I Release `json:"i" yaml:"i"`
	J Release `json:"j" yaml:"j"`
}

// EndOffsets are the end length offsets.
type EndOffsets struct {
	I               float64 `json:"i" yaml:"i"`
	J               float64 `json:"j" yaml:"j"`
	RigidZoneFactor float64 `json:"rigid_zone_factor" yaml:"rigid_zone_factor"`
}

// SteelGrade holds the strengths of one reinforcement set.
type SteelGrade struct {
	Fyk float64 `json:"fyk" yaml:"fyk"`
	Fuk float64 `json:"fuk" yaml:"fuk"`
	Fym float64 `json:"fym" yaml:"fym"`
	Fum float64 `json:"fum" yaml:"fum"`
}

// SteelProperties holds longitudinal and transversal reinforcement strengths.
type SteelProperties struct {
	Longitudinal SteelGrade `json:"longitudinal" yaml:"longitudinal"`
	Transversal  SteelGrade `json:"transversal" yaml:"transversal"`
}
