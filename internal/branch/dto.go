package branch

type CreateBranchRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}

type BranchResponse struct {
	ID   uint32 `json:"id"`
	Name string `json:"name"`
}

type ListBranchesResponse struct {
	Branches []BranchResponse `json:"branches"`
}
