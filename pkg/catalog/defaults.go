package catalog

// defaultDoorTypes is the built-in 4C door-type table.
//
// Tenant doors follow the standard height ladder (sd through qud),
// parcel lockers carry their unit count in the code (p2..p6), and the
// special rows cover master access, mail slots and the oversized tenant
// doors that ship uncatalogued on some frames.
var defaultDoorTypes = []DoorType{
	// Tenant
	{Code: "sd", Units: 1, Category: CategoryTenant, USPSApproved: true},
	{Code: "dd", Units: 2, Category: CategoryTenant, USPSApproved: true},
	{Code: "td", Units: 3, Category: CategoryTenant, USPSApproved: true},
	{Code: "qd", Units: 4, Category: CategoryTenant, USPSApproved: true},
	{Code: "qud", Units: 5, Category: CategoryTenant, USPSApproved: true},
	{Code: "htsd3", Units: 3, Category: CategoryTenant, USPSApproved: true},
	{Code: "htsd4", Units: 4, Category: CategoryTenant, USPSApproved: true},

	// Parcel
	{Code: "p2", Units: 2, Category: CategoryParcel, USPSApproved: true},
	{Code: "p3", Units: 3, Category: CategoryParcel, USPSApproved: true},
	{Code: "p4", Units: 4, Category: CategoryParcel, USPSApproved: true},
	{Code: "p5", Units: 5, Category: CategoryParcel, USPSApproved: true},
	{Code: "p6", Units: 6, Category: CategoryParcel, USPSApproved: true},
	{Code: "sp", Units: 2, Category: CategoryParcel, USPSApproved: true},
	{Code: "lp", Units: 6, Category: CategoryParcel, USPSApproved: true},
	{Code: "hopper", Units: 2, Category: CategoryParcel, USPSApproved: false},
	{Code: "bin", Units: 6, Category: CategoryParcel, USPSApproved: false},

	// Master access and mail intake
	{Code: "m", Units: 1, Category: CategoryMaster, USPSApproved: true},
	{Code: "ms", Units: 1, Category: CategorySpecial, USPSApproved: true},
	{Code: "bms", Units: 1, Category: CategorySpecial, USPSApproved: true},
	{Code: "om", Units: 1, Category: CategorySpecial, USPSApproved: true},

	// Oversized tenant doors: catalogued special, numbered as parcel
	{Code: "td5", Units: 5, Category: CategorySpecial, USPSApproved: false},
	{Code: "tdh6", Units: 6, Category: CategorySpecial, USPSApproved: false},
}

// defaultFrameModels is the built-in frame catalog. Columns are listed
// bottom to top and pack the model's unit count exactly.
var defaultFrameModels = []FrameModel{
	{
		Model: "4C06D-04", Width: 30.5, Height: 21.0, Units: 6,
		LeftColumn:  []string{"dd", "sd", "sd", "dd"},
		RightColumn: []string{"p3", "om", "dd"},
		Configurable: true,
	},
	{
		Model: "4C09D-06", Width: 30.5, Height: 31.5, Units: 9,
		LeftColumn:  []string{"td", "dd", "dd", "sd", "om"},
		RightColumn: []string{"p4", "dd", "td"},
		Configurable: true,
	},
	{
		Model: "4C12D-10", Width: 30.5, Height: 42.0, Units: 12,
		LeftColumn:  []string{"dd", "dd", "dd", "dd", "dd", "sd", "m"},
		RightColumn: []string{"p5", "p4", "td"},
		Configurable: true,
	},
	{
		Model: "4C16S-12", Width: 17.25, Height: 56.0, Units: 16,
		LeftColumn:   []string{"qd", "qd", "qd", "td", "m"},
		Configurable: true,
	},
	{
		Model: "4C16P-06", Width: 17.25, Height: 56.0, Units: 16,
		LeftColumn:   []string{"p6", "p6", "sp", "dd"},
		Configurable: false,
	},
}

// Default returns the built-in 4C catalog.
func Default() *Catalog {
	return New(defaultDoorTypes, defaultFrameModels)
}
