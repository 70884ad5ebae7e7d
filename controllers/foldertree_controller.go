package controllers

import (
	"strings"

	"hupunachat/models"
	"hupunachat/services"
	"hupunachat/utils"

	"github.com/gin-gonic/gin"
)

// FolderTreeController serves the folder-tree overlay endpoint.
type FolderTreeController struct {
	treeService *services.TreeService
}

func NewFolderTreeController(treeService *services.TreeService) *FolderTreeController {
	return &FolderTreeController{treeService: treeService}
}

type treeRequest struct {
	Action    string              `json:"action"`
	RoomID    string              `json:"roomId"`
	FolderID  string              `json:"folderId"`
	MessageID string              `json:"messageId"`
	Preview   string              `json:"preview"`
	Folders   []models.FolderNode `json:"folders"`
	// Revision is the optional optimistic-concurrency token for updateTree;
	// callers that omit it get plain last-writer-wins replacement.
	Revision *int64 `json:"revision"`
}

// Handle dispatches POST /api/folders.
func (tc *FolderTreeController) Handle(c *gin.Context) {
	var req treeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	ctx := c.Request.Context()

	switch req.Action {
	case "read":
		doc, err := tc.treeService.Read(ctx, req.RoomID)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		utils.SuccessResponse(c, gin.H{"data": doc})

	case "saveItem":
		if err := tc.treeService.SaveItem(ctx, req.RoomID, req.FolderID, req.MessageID, req.Preview); err != nil {
			handleServiceError(c, err)
			return
		}
		utils.SuccessResponse(c, gin.H{})

	case "removeItem":
		if err := tc.treeService.RemoveItem(ctx, req.RoomID, req.FolderID, req.MessageID); err != nil {
			handleServiceError(c, err)
			return
		}
		utils.SuccessResponse(c, gin.H{})

	case "updateTree":
		if req.Folders == nil {
			utils.BadRequestResponse(c, "Missing folders")
			return
		}
		revision, err := tc.treeService.UpdateTree(ctx, req.RoomID, req.Folders, req.Revision)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		utils.SuccessResponse(c, gin.H{"revision": revision})

	default:
		if strings.TrimSpace(req.Action) == "" {
			utils.BadRequestResponse(c, "Missing action")
			return
		}
		utils.BadRequestResponse(c, "Invalid action")
	}
}
