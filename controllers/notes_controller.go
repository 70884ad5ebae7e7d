package controllers

import (
	"errors"
	"strings"

	"hupunachat/services"
	"hupunachat/utils"

	"github.com/gin-gonic/gin"
)

// NotesController serves the notes overlay endpoint: one POST route
// dispatched on the action field of the JSON body.
type NotesController struct {
	noteService *services.NoteService
}

func NewNotesController(noteService *services.NoteService) *NotesController {
	return &NotesController{noteService: noteService}
}

type notesRequest struct {
	Action   string `json:"action"`
	RoomID   string `json:"roomId"`
	FolderID string `json:"folderId"`
	Name     string `json:"name"`
	Key      string `json:"key"`
	Value    string `json:"value"`
}

// Handle dispatches POST /api/notes.
func (nc *NotesController) Handle(c *gin.Context) {
	var req notesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	ctx := c.Request.Context()

	switch req.Action {
	case "read":
		doc, err := nc.noteService.Read(ctx, req.RoomID)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		utils.SuccessResponse(c, gin.H{"data": doc})

	case "createFolder":
		folder, err := nc.noteService.CreateFolder(ctx, req.RoomID, req.Name)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		utils.SuccessResponse(c, gin.H{"folder": folder})

	case "renameFolder":
		if err := nc.noteService.RenameFolder(ctx, req.RoomID, req.FolderID, req.Name); err != nil {
			handleServiceError(c, err)
			return
		}
		utils.SuccessResponse(c, gin.H{})

	case "deleteFolder":
		if err := nc.noteService.DeleteFolder(ctx, req.RoomID, req.FolderID); err != nil {
			handleServiceError(c, err)
			return
		}
		utils.SuccessResponse(c, gin.H{})

	case "listKV":
		items, err := nc.noteService.ListKV(ctx, req.RoomID, req.FolderID)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		utils.SuccessResponse(c, gin.H{"items": items})

	case "upsertKV":
		if err := nc.noteService.UpsertKV(ctx, req.RoomID, req.FolderID, req.Key, req.Value); err != nil {
			handleServiceError(c, err)
			return
		}
		utils.SuccessResponse(c, gin.H{})

	case "deleteKV":
		if err := nc.noteService.DeleteKV(ctx, req.RoomID, req.FolderID, req.Key); err != nil {
			handleServiceError(c, err)
			return
		}
		utils.SuccessResponse(c, gin.H{})

	default:
		if strings.TrimSpace(req.Action) == "" {
			utils.BadRequestResponse(c, "Missing action")
			return
		}
		utils.BadRequestResponse(c, "Invalid action")
	}
}

// handleServiceError maps the store error taxonomy to the wire: missing or
// unusable fields become 400, a stale tree revision 409, anything else 500
// with the detail kept in the server log.
func handleServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		utils.BadRequestResponse(c, validationErr.Error())
		return
	}

	var conflictErr *services.ConflictError
	if errors.As(err, &conflictErr) {
		utils.ConflictResponse(c, conflictErr.Error())
		return
	}

	utils.LogError("overlay store operation failed", err)
	utils.InternalServerErrorResponse(c)
}
