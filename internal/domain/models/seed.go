package models

// SeedIngredients returns the initial raw-material catalog used when no saved
// catalog exists.
func SeedIngredients() []Ingredient {
	return []Ingredient{
		{ID: "i1", Name: "ซาลาเปาไส้ครีมชีส TV", Stock: 0, Unit: "ถุง", BaseCost: 69},
		{ID: "i2", Name: "ฟองเต้าหู้ซีฟู้ด PFP", Stock: 0, Unit: "ถุง", BaseCost: 79},
		{ID: "i3", Name: "เต้าหู้ปลาแผ่น", Stock: 0, Unit: "ถุง", BaseCost: 35},
		{ID: "i4", Name: "เต้าหู้ปลาลูกเต๋า", Stock: 0, Unit: "ถุง", BaseCost: 35},
		{ID: "i5", Name: `ไม้เสียบอาหาร 8" (200g)`, Stock: 0, Unit: "ห่อ", BaseCost: 11.25},
		{ID: "i6", Name: "ถุงหูหิ้วแป้ง 60x56", Stock: 0, Unit: "ใบ", BaseCost: 16},
		{ID: "i7", Name: "ไข่ไก่เบอร์ 3 (30ฟอง)", Stock: 0, Unit: "แพ็ค", BaseCost: 80},
		{ID: "i8", Name: "น้ำจิ้มสุกี้กวางตุ้ง (900g)", Stock: 0, Unit: "ถุง", BaseCost: 55},
		{ID: "i9", Name: "ถ้วยเหลี่ยม 1oz (50ชิ้น)", Stock: 0, Unit: "ห่อ", BaseCost: 20},
		{ID: "i10", Name: "แก้วกระดาษขาว 16oz (50ใบ)", Stock: 0, Unit: "แถว", BaseCost: 58},
		{ID: "i11", Name: "น้ำซุปขวด (ลิตร)", Stock: 0, Unit: "ขวด", BaseCost: 153},
	}
}

// SeedProducts returns the initial sellable catalog used when no saved catalog
// exists. Every recipe references an entry of SeedIngredients.
func SeedProducts() []Product {
	return []Product{
		{ID: "p1", Name: "ซาลาเปาไส้ครีมชีส", Price: 10, Recipe: &Recipe{IngredientID: "i1", Ratio: 20}},
		{ID: "p2", Name: "ฟองเต้าหู้", Price: 10, Recipe: &Recipe{IngredientID: "i2", Ratio: 15}},
		{ID: "p3", Name: "เต้าหู้ปลาแผ่น", Price: 10, Recipe: &Recipe{IngredientID: "i3", Ratio: 10}},
		{ID: "p4", Name: "เต้าหู้ปลาลูกเต๋า", Price: 10, Recipe: &Recipe{IngredientID: "i4", Ratio: 12}},
		{ID: "p5", Name: "ไข่นกกระทา", Price: 10, Recipe: &Recipe{IngredientID: "i7", Ratio: 30}},
		{ID: "p6", Name: "เส้นบุก", Price: 10, Recipe: &Recipe{IngredientID: "i11", Ratio: 5}},
	}
}
