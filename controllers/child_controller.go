package controllers

import (
	"HaloBackend/models"
	"HaloBackend/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	childService ChildServiceInterface
	alertService AlertServiceInterface
	sosService   SOSServiceInterface
	usageService UsageServiceInterface
)

func SetChildService(service ChildServiceInterface) {
	childService = service
}

func SetAlertService(service AlertServiceInterface) {
	alertService = service
}

func SetSOSService(service SOSServiceInterface) {
	sosService = service
}

func SetUsageService(service UsageServiceInterface) {
	usageService = service
}

func RegisterChild(c *gin.Context) {
	var input struct {
		UID            string   `json:"uid" binding:"required"`
		Name           string   `json:"name" binding:"required"`
		DOB            string   `json:"dob"`
		Address        string   `json:"address"`
		BloodGroup     string   `json:"blood_group"`
		ParentUID      string   `json:"parent_uid" binding:"required"`
		ParentContacts []string `json:"parent_contacts" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	uid, err := childService.RegisterChild(c.Request.Context(), models.Child{
		UID:            input.UID,
		Name:           input.Name,
		DOB:            input.DOB,
		Address:        input.Address,
		BloodGroup:     input.BloodGroup,
		ParentUID:      input.ParentUID,
		ParentContacts: input.ParentContacts,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "uid": uid})
}

func PushAppUsage(c *gin.Context) {
	var input struct {
		UID             string `json:"uid" binding:"required"`
		PackageName     string `json:"package_name" binding:"required"`
		DurationSeconds *int64 `json:"duration_seconds" binding:"required"`
		Timestamp       string `json:"timestamp"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	ts, err := parseTimestamp("timestamp", input.Timestamp)
	if err != nil {
		respondError(c, err)
		return
	}

	err = childService.RecordAppUsage(c.Request.Context(), models.AppUsageRecord{
		UID:             input.UID,
		Package:         input.PackageName,
		DurationSeconds: *input.DurationSeconds,
		Timestamp:       ts,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func SaveJournal(c *gin.Context) {
	var input struct {
		UID  string   `json:"uid" binding:"required"`
		Date string   `json:"date"`
		Good []string `json:"good" binding:"required"`
		Bad  []string `json:"bad" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	err := childService.SaveJournal(c.Request.Context(), models.JournalEntry{
		UID:  input.UID,
		Date: input.Date,
		Good: input.Good,
		Bad:  input.Bad,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func SetReminder(c *gin.Context) {
	var input struct {
		UID             string  `json:"uid" binding:"required"`
		Type            string  `json:"type" binding:"required"`
		IntervalMinutes *int    `json:"interval_minutes"`
		AtTime          *string `json:"at_time"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	message, err := childService.SaveReminder(c.Request.Context(), models.Reminder{
		UID:             input.UID,
		Type:            input.Type,
		IntervalMinutes: input.IntervalMinutes,
		AtTime:          input.AtTime,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": message})
}

func ReportMessage(c *gin.Context) {
	var input struct {
		ChildUID    string `json:"child_uid" binding:"required"`
		FromNumber  string `json:"from_number" binding:"required"`
		MessageText string `json:"message_text" binding:"required"`
		App         string `json:"app"`
		Timestamp   string `json:"timestamp"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	ts, err := parseTimestamp("timestamp", input.Timestamp)
	if err != nil {
		respondError(c, err)
		return
	}

	suspicious, err := alertService.IngestReportedEvent(c.Request.Context(), services.ReportedEvent{
		ChildUID:  input.ChildUID,
		Kind:      models.AlertKindMessage,
		From:      input.FromNumber,
		Text:      input.MessageText,
		App:       input.App,
		Timestamp: ts,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "suspicious": suspicious})
}

func ReportText(c *gin.Context) {
	var input struct {
		ChildUID    string `json:"child_uid" binding:"required"`
		TextContent string `json:"text_content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	suspicious, err := alertService.IngestReportedEvent(c.Request.Context(), services.ReportedEvent{
		ChildUID: input.ChildUID,
		Kind:     models.AlertKindReportedText,
		Text:     input.TextContent,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "suspicious": suspicious})
}

func SendSOS(c *gin.Context) {
	var input struct {
		UID  string   `json:"uid" binding:"required"`
		Lat  *float64 `json:"lat"`
		Lng  *float64 `json:"lng"`
		Note string   `json:"note"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	sosID, err := sosService.TriggerSOS(c.Request.Context(), services.SOSRequest{
		UID:  input.UID,
		Lat:  input.Lat,
		Lng:  input.Lng,
		Note: input.Note,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "sos_id": sosID})
}

func UpdateLocation(c *gin.Context) {
	var input struct {
		UID string   `json:"uid" binding:"required"`
		Lat *float64 `json:"lat" binding:"required"`
		Lng *float64 `json:"lng" binding:"required"`
		TS  string   `json:"ts"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	ts, err := parseTimestamp("ts", input.TS)
	if err != nil {
		respondError(c, err)
		return
	}

	err = childService.UpdateLocation(c.Request.Context(), models.LocationSample{
		UID:       input.UID,
		Lat:       *input.Lat,
		Lng:       *input.Lng,
		Timestamp: ts,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func UsageSummary(c *gin.Context) {
	summary, err := usageService.Summary(c.Request.Context(), c.Param("uid"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":            true,
		"total_seconds": summary.TotalSeconds,
		"summary":       summary.Entries,
	})
}
