package internal

type PageKind string

const (
	PageCategory  PageKind = "category"
	PageStructure PageKind = "structure"
	PageRecipe    PageKind = "recipe"
)

type StructureRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// RecipeDraft is one hyperlink found on a single structure page. Drafts are
// page-local and get merged by URL before anything is fetched.
type RecipeDraft struct {
	Name      string
	URL       string
	Structure string
}

type RecipeLink struct {
	Name       string   `json:"name"`
	URL        string   `json:"url"`
	Structures []string `json:"structures"`
}

type Item struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type LabourInfo struct {
	RawText     string  `json:"raw_text"`
	ParsedHours float64 `json:"parsed_hours"`
}

type CostInfo struct {
	RawText  string `json:"raw_text"`
	Amount   *int   `json:"amount"`
	Currency string `json:"currency"`
}

type RecipeDetail struct {
	Name          string      `json:"name"`
	URL           string      `json:"url"`
	RequiredItems []Item      `json:"required_items"`
	ProducesItems []Item      `json:"produces_items"`
	Labour        *LabourInfo `json:"labour_required"`
	Cost          *CostInfo   `json:"cost"`
	Structures    []string    `json:"structures"`
}

type LabourCost struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

type RecipeCost struct {
	Labour LabourCost `json:"labour"`
	Gold   int        `json:"gold"`
}

type CanonicalRecipe struct {
	Product     *Item      `json:"product"`
	Ingredients []Item     `json:"ingredients"`
	Buildings   []string   `json:"buildings"`
	Cost        RecipeCost `json:"cost"`
}

type RecipeSummary struct {
	Name        string   `json:"name"`
	Filename    string   `json:"filename"`
	Structures  []string `json:"structures"`
	InputCount  int      `json:"inputCount"`
	OutputCount int      `json:"outputCount"`
	LaborHours  int      `json:"laborHours"`
	Cost        int      `json:"cost"`
}

type RecipeIndex struct {
	TotalRecipes       int             `json:"totalRecipes"`
	RecipesByStructure map[string]int  `json:"recipesByStructure"`
	Recipes            []RecipeSummary `json:"recipes"`
}

// NameRepair is one audited product name substitution. Trigger says which
// heuristic fired, confidence how far the stored name corroborates the
// reconstruction.
type NameRepair struct {
	Filename   string `json:"filename"`
	OldName    string `json:"old_name"`
	NewName    string `json:"new_name"`
	Trigger    string `json:"trigger"`
	Confidence string `json:"confidence"`
}

type PageRow struct {
	ID        int
	URL       string
	Kind      string
	Title     string
	Hash      string
	Status    string
	RawRef    string
	LastError string
	FetchedAt string
}
