package server

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/10srav/tasksaver/mailout"
	"github.com/10srav/tasksaver/model"
	"github.com/10srav/tasksaver/objectstorage"
	"github.com/10srav/tasksaver/store"
)

func (s *Server) getMessages(c echo.Context) error {
	user, err := s.currentUser(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	page, _ := strconv.Atoi(c.QueryParam("page"))
	q := store.MessageQuery{
		Folder: c.QueryParam("folder"),
		Status: c.QueryParam("status"),
		Limit:  limit,
		Page:   page,
	}

	messages, pagination, err := s.messages.List(c.Request().Context(), user.ID, q)
	if err != nil {
		c.Logger().Error("list messages: ", err)
		return fail(c, http.StatusInternalServerError, "Failed to fetch messages")
	}

	return c.JSON(http.StatusOK, Response{
		Success:    true,
		Data:       messages,
		Pagination: &pagination,
	})
}

// expandRecipients normalizes To/Cc/Bcc in place: a single entry may carry a
// comma-separated address list, as pasted header values often do.
func expandRecipients(msg *model.Message) error {
	for _, field := range []*[]string{&msg.To, &msg.Cc, &msg.Bcc} {
		if len(*field) == 0 {
			continue
		}
		expanded, err := mailout.ExpandAddressList(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}
	return nil
}

func validateMessage(msg *model.Message) string {
	if strings.TrimSpace(msg.From) == "" {
		return "From address is required"
	}
	if len(msg.To) == 0 {
		return "At least one recipient is required"
	}
	for _, list := range [][]string{msg.To, msg.Cc, msg.Bcc} {
		for _, a := range list {
			if !mailout.ValidAddress(a) {
				return "Invalid recipient address: " + a
			}
		}
	}
	if strings.TrimSpace(msg.Subject) == "" {
		return "Subject is required"
	}
	if msg.Body == "" {
		return "Body is required"
	}
	return ""
}

func (s *Server) postMessage(c echo.Context) error {
	user, err := s.currentUser(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	var msg model.Message
	if err := c.Bind(&msg); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := expandRecipients(&msg); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid recipient list")
	}
	if errMsg := validateMessage(&msg); errMsg != "" {
		return fail(c, http.StatusBadRequest, errMsg)
	}
	if msg.Priority == "" {
		msg.Priority = model.MessagePriorityNormal
	}
	if msg.Status == "" {
		msg.Status = model.MessageStatusDraft
	}
	if msg.ThreadID == "" {
		msg.ThreadID = uuid.New().String()
	}
	msg.ID = ""
	msg.UserID = user.ID

	if err := s.messages.Create(c.Request().Context(), &msg); err != nil {
		c.Logger().Error("create message: ", err)
		return fail(c, http.StatusInternalServerError, "Failed to create message")
	}
	return created(c, msg)
}

func (s *Server) getMessage(c echo.Context) error {
	user, err := s.currentUser(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	ctx := c.Request().Context()
	msg, err := s.messages.FindByID(ctx, user.ID, c.Param("id"))
	if err != nil {
		return storeFail(c, err, "Message not found", "Failed to fetch message")
	}

	// Fetching an unread message marks it read.
	if !msg.IsRead {
		msg.IsRead = true
		if err := s.messages.Save(ctx, msg); err != nil {
			c.Logger().Error("mark read: ", err)
		}
	}

	return ok(c, msg)
}

func (s *Server) putMessage(c echo.Context) error {
	user, err := s.currentUser(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	ctx := c.Request().Context()
	msg, err := s.messages.FindByID(ctx, user.ID, c.Param("id"))
	if err != nil {
		return storeFail(c, err, "Message not found", "Failed to update message")
	}

	patched := *msg
	if err := c.Bind(&patched); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	patched.ID = msg.ID
	patched.UserID = msg.UserID
	patched.CreatedAt = msg.CreatedAt

	if err := s.messages.Save(ctx, &patched); err != nil {
		c.Logger().Error("save message: ", err)
		return fail(c, http.StatusInternalServerError, "Failed to update message")
	}
	return ok(c, patched)
}

func (s *Server) deleteMessage(c echo.Context) error {
	user, err := s.currentUser(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	if _, err := s.messages.MoveToTrash(c.Request().Context(), user.ID, c.Param("id")); err != nil {
		return storeFail(c, err, "Message not found", "Failed to delete message")
	}
	return c.JSON(http.StatusOK, Response{Success: true, Message: "Message moved to trash"})
}

type sendRequest struct {
	ID string `json:"id"`
	model.Message
}

// postMessageSend creates or updates a message, marks it sent, and relays it
// over SMTP when a relay is configured. Relay failure does not un-send: the
// stored status stays sent and the failure is reported in the envelope.
func (s *Server) postMessageSend(c echo.Context) error {
	user, err := s.currentUser(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	var req sendRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	ctx := c.Request().Context()
	now := time.Now()

	var msg *model.Message
	if req.ID != "" {
		// Existing draft: update in place.
		msg, err = s.messages.FindByID(ctx, user.ID, req.ID)
		if err != nil {
			return storeFail(c, err, "Message not found", "Failed to send message")
		}
		patched := req.Message
		patched.ID = msg.ID
		patched.UserID = msg.UserID
		patched.CreatedAt = msg.CreatedAt
		*msg = patched
	} else {
		m := req.Message
		m.UserID = user.ID
		msg = &m
	}

	if err := expandRecipients(msg); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid recipient list")
	}
	if errMsg := validateMessage(msg); errMsg != "" {
		return fail(c, http.StatusBadRequest, errMsg)
	}
	if msg.Priority == "" {
		msg.Priority = model.MessagePriorityNormal
	}
	if msg.ThreadID == "" {
		msg.ThreadID = uuid.New().String()
	}
	msg.Status = model.MessageStatusSent
	msg.SentAt = &now

	if msg.ID == "" {
		err = s.messages.Create(ctx, msg)
	} else {
		err = s.messages.Save(ctx, msg)
	}
	if err != nil {
		c.Logger().Error("store sent message: ", err)
		return fail(c, http.StatusInternalServerError, "Failed to send message")
	}

	note := "Message sent successfully"
	if s.relay != nil {
		if err := s.relay.Send(msg); err != nil {
			c.Logger().Error("smtp relay: ", err)
			note = "Message saved as sent but relay delivery failed"
		}
	}

	return c.JSON(http.StatusOK, Response{Success: true, Data: msg, Message: note})
}

// postAttachment uploads a blob for a message and records its metadata.
func (s *Server) postAttachment(c echo.Context) error {
	user, err := s.currentUser(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}
	if s.s3Client == nil {
		return fail(c, http.StatusServiceUnavailable, "Attachment storage is not configured")
	}

	ctx := c.Request().Context()
	msg, err := s.messages.FindByID(ctx, user.ID, c.Param("id"))
	if err != nil {
		return storeFail(c, err, "Message not found", "Failed to upload attachment")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Attachment file is required")
	}
	src, err := file.Open()
	if err != nil {
		c.Logger().Error("open upload: ", err)
		return fail(c, http.StatusInternalServerError, "Failed to upload attachment")
	}
	defer src.Close()

	key := objectstorage.GenerateObjectKey()
	if err := objectstorage.UploadObject(s.s3Client, s.conf.ObjectStorage.Bucket, key, src); err != nil {
		c.Logger().Error("upload attachment: ", err)
		return fail(c, http.StatusInternalServerError, "Failed to upload attachment")
	}

	att := model.Attachment{
		Filename:  file.Filename,
		Size:      file.Size,
		Type:      file.Header.Get("Content-Type"),
		ObjectKey: key,
	}
	msg.Attachments = append(msg.Attachments, att)

	if err := s.messages.Save(ctx, msg); err != nil {
		c.Logger().Error("save attachment metadata: ", err)
		return fail(c, http.StatusInternalServerError, "Failed to upload attachment")
	}
	return created(c, msg)
}

// getAttachment streams an attachment blob back, decompressed.
func (s *Server) getAttachment(c echo.Context) error {
	user, err := s.currentUser(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}
	if s.s3Client == nil {
		return fail(c, http.StatusServiceUnavailable, "Attachment storage is not configured")
	}

	ctx := c.Request().Context()
	msg, err := s.messages.FindByID(ctx, user.ID, c.Param("id"))
	if err != nil {
		return storeFail(c, err, "Message not found", "Failed to fetch attachment")
	}

	key := c.Param("*")
	var att *model.Attachment
	for i := range msg.Attachments {
		if msg.Attachments[i].ObjectKey == key {
			att = &msg.Attachments[i]
			break
		}
	}
	if att == nil {
		return fail(c, http.StatusNotFound, "Attachment not found")
	}

	// Metadata can outlive the blob when a bucket is cleaned out of band.
	exists, err := objectstorage.ObjectExists(s.s3Client, s.conf.ObjectStorage.Bucket, key)
	if err != nil {
		c.Logger().Error("head attachment: ", err)
		return fail(c, http.StatusInternalServerError, "Failed to fetch attachment")
	}
	if !exists {
		return fail(c, http.StatusNotFound, "Attachment content not found")
	}

	body, err := objectstorage.DownloadObject(s.s3Client, s.conf.ObjectStorage.Bucket, key)
	if err != nil {
		c.Logger().Error("download attachment: ", err)
		return fail(c, http.StatusInternalServerError, "Failed to fetch attachment")
	}
	defer body.Close()

	contentType := att.Type
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+att.Filename+`"`)
	c.Response().Header().Set(echo.HeaderContentType, contentType)
	c.Response().WriteHeader(http.StatusOK)
	_, err = io.Copy(c.Response(), body)
	return err
}

// deleteAttachment removes an attachment's metadata and its stored blob.
func (s *Server) deleteAttachment(c echo.Context) error {
	user, err := s.currentUser(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}
	if s.s3Client == nil {
		return fail(c, http.StatusServiceUnavailable, "Attachment storage is not configured")
	}

	ctx := c.Request().Context()
	msg, err := s.messages.FindByID(ctx, user.ID, c.Param("id"))
	if err != nil {
		return storeFail(c, err, "Message not found", "Failed to delete attachment")
	}

	key := c.Param("*")
	kept := msg.Attachments[:0]
	found := false
	for _, att := range msg.Attachments {
		if att.ObjectKey == key {
			found = true
			continue
		}
		kept = append(kept, att)
	}
	if !found {
		return fail(c, http.StatusNotFound, "Attachment not found")
	}
	msg.Attachments = kept

	if err := s.messages.Save(ctx, msg); err != nil {
		c.Logger().Error("save attachment metadata: ", err)
		return fail(c, http.StatusInternalServerError, "Failed to delete attachment")
	}

	// The metadata is the source of truth; a leftover blob is logged, not
	// surfaced.
	if err := objectstorage.DeleteObject(s.s3Client, s.conf.ObjectStorage.Bucket, key); err != nil {
		c.Logger().Error("delete attachment blob: ", err)
	}

	return c.JSON(http.StatusOK, Response{Success: true, Message: "Attachment deleted"})
}
