package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"liferpg/internal/engine"
)

func userID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func optionalQuery(c *gin.Context, key string) *string {
	v := c.Query(key)
	if v == "" {
		return nil
	}
	return &v
}

// bind decodes the JSON body and records a 400 on failure.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		_ = c.Error(badRequest("invalid request body: " + err.Error()))
		return false
	}
	return true
}

type createRoleRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

func (s *Server) listRoles(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	roles, err := s.svc.ListRoles(c.Request.Context(), userID(c), activeOnly)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(roles, toRoleDTO))
}

func (s *Server) createRole(c *gin.Context) {
	var req createRoleRequest
	if !bind(c, &req) {
		return
	}
	role, err := s.svc.CreateRole(c.Request.Context(), engine.CreateRoleInput{
		UserID:      userID(c),
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, toRoleDTO(role))
}

func (s *Server) getRole(c *gin.Context) {
	role, err := s.svc.GetRole(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toRoleDTO(role))
}

type createQuestRequest struct {
	RoleID      string `json:"roleId" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	XPReward    int    `json:"xpReward"`
	Frequency   string `json:"frequency"`
}

func (s *Server) listQuests(c *gin.Context) {
	quests, err := s.svc.ListQuests(c.Request.Context(), userID(c), optionalQuery(c, "roleId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(quests, toQuestDTO))
}

func (s *Server) todayQuests(c *gin.Context) {
	quests, err := s.svc.TodayQuests(c.Request.Context(), userID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(quests, toQuestDTO))
}

func (s *Server) createQuest(c *gin.Context) {
	var req createQuestRequest
	if !bind(c, &req) {
		return
	}
	q, err := s.svc.CreateQuest(c.Request.Context(), engine.CreateQuestInput{
		UserID:      userID(c),
		RoleID:      req.RoleID,
		Title:       req.Title,
		Description: req.Description,
		XPReward:    req.XPReward,
		Frequency:   req.Frequency,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, toQuestDTO(q))
}

func (s *Server) completeQuest(c *gin.Context) {
	res, err := s.svc.CompleteQuest(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"quest":      toQuestDTO(res.Quest),
		"completion": toCompletionDTO(res.CompleteResult),
	})
}

func (s *Server) uncompleteQuest(c *gin.Context) {
	q, err := s.svc.UncompleteQuest(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toQuestDTO(q))
}

func (s *Server) resetDaily(c *gin.Context) {
	n, err := s.svc.ResetDailyQuests(c.Request.Context(), userID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reset": n})
}

type createObjectiveRequest struct {
	RoleID      *string    `json:"roleId"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Quarter     string     `json:"quarter"`
	Year        int        `json:"year"`
	XPReward    int        `json:"xpReward"`
	Deadline    *time.Time `json:"deadline"`
}

func (s *Server) listObjectives(c *gin.Context) {
	year := 0
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			_ = c.Error(badRequest("year must be a number"))
			return
		}
		year = y
	}
	objs, err := s.svc.ListObjectives(c.Request.Context(), userID(c), c.Query("quarter"), year)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(objs, toObjectiveDTO))
}

func (s *Server) createObjective(c *gin.Context) {
	var req createObjectiveRequest
	if !bind(c, &req) {
		return
	}
	o, err := s.svc.CreateObjective(c.Request.Context(), engine.CreateObjectiveInput{
		UserID:      userID(c),
		RoleID:      req.RoleID,
		Title:       req.Title,
		Description: req.Description,
		Quarter:     req.Quarter,
		Year:        req.Year,
		XPReward:    req.XPReward,
		Deadline:    req.Deadline,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, toObjectiveDTO(o))
}

func (s *Server) completeObjective(c *gin.Context) {
	res, err := s.svc.CompleteObjective(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"objective":  toObjectiveDTO(res.Objective),
		"completion": toCompletionDTO(res.CompleteResult),
	})
}

type objectiveStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) setObjectiveStatus(c *gin.Context) {
	var req objectiveStatusRequest
	if !bind(c, &req) {
		return
	}
	status, err := engine.ParseObjectiveStatus(req.Status)
	if err != nil {
		_ = c.Error(err)
		return
	}
	o, err := s.svc.SetObjectiveStatus(c.Request.Context(), userID(c), c.Param("id"), status)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toObjectiveDTO(o))
}

type createSkillRequest struct {
	RoleID        string   `json:"roleId" binding:"required"`
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Icon          string   `json:"icon"`
	CostXP        int      `json:"costXp"`
	CostMoney     *float64 `json:"costMoney"`
	CostTime      string   `json:"costTime"`
	ParentSkillID *string  `json:"parentSkillId"`
	PositionX     int      `json:"positionX"`
	PositionY     int      `json:"positionY"`
}

func (s *Server) listSkills(c *gin.Context) {
	skills, err := s.svc.ListSkills(c.Request.Context(), userID(c), optionalQuery(c, "roleId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(skills, toSkillDTO))
}

func (s *Server) createSkill(c *gin.Context) {
	var req createSkillRequest
	if !bind(c, &req) {
		return
	}
	sk, err := s.svc.CreateSkill(c.Request.Context(), engine.CreateSkillInput{
		UserID:        userID(c),
		RoleID:        req.RoleID,
		Name:          req.Name,
		Description:   req.Description,
		Icon:          req.Icon,
		CostXP:        req.CostXP,
		CostMoney:     req.CostMoney,
		CostTime:      req.CostTime,
		ParentSkillID: req.ParentSkillID,
		PositionX:     req.PositionX,
		PositionY:     req.PositionY,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, toSkillDTO(sk))
}

func (s *Server) unlockSkill(c *gin.Context) {
	res, err := s.svc.UnlockSkill(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	children := make([]skillDTO, 0, len(res.UnlockedChildren))
	for _, ch := range res.UnlockedChildren {
		children = append(children, toSkillDTO(ch))
	}
	c.JSON(http.StatusOK, gin.H{
		"skill":            toSkillDTO(res.Skill),
		"unlockedChildren": children,
	})
}

type createTimeBlockRequest struct {
	RoleID      *string `json:"roleId"`
	Title       string  `json:"title" binding:"required"`
	StartMinute int     `json:"startMinute"`
	EndMinute   int     `json:"endMinute"`
	BlockType   string  `json:"blockType"`
	IsRecurring bool    `json:"isRecurring"`
	DaysOfWeek  []int   `json:"daysOfWeek"`
}

func (s *Server) listTimeBlocks(c *gin.Context) {
	blocks, err := s.svc.ListTimeBlocks(c.Request.Context(), userID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(blocks, toTimeBlockDTO))
}

func (s *Server) createTimeBlock(c *gin.Context) {
	var req createTimeBlockRequest
	if !bind(c, &req) {
		return
	}
	b, err := s.svc.CreateTimeBlock(c.Request.Context(), engine.CreateTimeBlockInput{
		UserID:      userID(c),
		RoleID:      req.RoleID,
		Title:       req.Title,
		StartMinute: req.StartMinute,
		EndMinute:   req.EndMinute,
		BlockType:   req.BlockType,
		IsRecurring: req.IsRecurring,
		DaysOfWeek:  req.DaysOfWeek,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, toTimeBlockDTO(b))
}

func (s *Server) recentXP(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			_ = c.Error(badRequest("limit must be a number"))
			return
		}
		limit = n
	}
	entries, err := s.svc.RecentXP(c.Request.Context(), userID(c), limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(entries, toXPEntryDTO))
}

func (s *Server) dashboardStats(c *gin.Context) {
	st, err := s.svc.DashboardStats(c.Request.Context(), userID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, statsDTO{
		Level:           st.Level,
		CurrentXP:       st.TotalXP,
		XPToNextLevel:   st.XPToNextLevel,
		GlobalStreak:    st.GlobalStreak,
		FocusHoursToday: st.FocusHoursToday,
		ActiveRoles:     st.ActiveRoles,
	})
}

func (s *Server) me(c *gin.Context) {
	u, err := s.svc.GetUser(c.Request.Context(), userID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toUserDTO(u))
}

func (s *Server) getQuest(c *gin.Context) {
	q, err := s.svc.GetQuest(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toQuestDTO(q))
}

type updateQuestRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	XPReward    *int    `json:"xpReward"`
	Frequency   *string `json:"frequency"`
}

func (s *Server) updateQuest(c *gin.Context) {
	var req updateQuestRequest
	if !bind(c, &req) {
		return
	}
	q, err := s.svc.UpdateQuest(c.Request.Context(), userID(c), c.Param("id"), engine.QuestPatch{
		Title:       req.Title,
		Description: req.Description,
		XPReward:    req.XPReward,
		Frequency:   req.Frequency,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toQuestDTO(q))
}

func (s *Server) deleteQuest(c *gin.Context) {
	if err := s.svc.DeleteQuest(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getObjective(c *gin.Context) {
	o, err := s.svc.GetObjective(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toObjectiveDTO(o))
}

type updateObjectiveRequest struct {
	RoleID      *string    `json:"roleId"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Quarter     *string    `json:"quarter"`
	Year        *int       `json:"year"`
	XPReward    *int       `json:"xpReward"`
	Deadline    *time.Time `json:"deadline"`
}

func (s *Server) updateObjective(c *gin.Context) {
	var req updateObjectiveRequest
	if !bind(c, &req) {
		return
	}
	o, err := s.svc.UpdateObjective(c.Request.Context(), userID(c), c.Param("id"), engine.ObjectivePatch{
		RoleID:      req.RoleID,
		Title:       req.Title,
		Description: req.Description,
		Quarter:     req.Quarter,
		Year:        req.Year,
		XPReward:    req.XPReward,
		Deadline:    req.Deadline,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toObjectiveDTO(o))
}

func (s *Server) deleteObjective(c *gin.Context) {
	if err := s.svc.DeleteObjective(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getSkill(c *gin.Context) {
	sk, err := s.svc.GetSkill(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toSkillDTO(sk))
}

func (s *Server) getTimeBlock(c *gin.Context) {
	b, err := s.svc.GetTimeBlock(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toTimeBlockDTO(b))
}

type updateTimeBlockRequest struct {
	RoleID      *string `json:"roleId"`
	Title       *string `json:"title"`
	StartMinute *int    `json:"startMinute"`
	EndMinute   *int    `json:"endMinute"`
	BlockType   *string `json:"blockType"`
	DaysOfWeek  *[]int  `json:"daysOfWeek"`
}

func (s *Server) updateTimeBlock(c *gin.Context) {
	var req updateTimeBlockRequest
	if !bind(c, &req) {
		return
	}
	b, err := s.svc.UpdateTimeBlock(c.Request.Context(), userID(c), c.Param("id"), engine.TimeBlockPatch{
		RoleID:      req.RoleID,
		Title:       req.Title,
		StartMinute: req.StartMinute,
		EndMinute:   req.EndMinute,
		BlockType:   req.BlockType,
		DaysOfWeek:  req.DaysOfWeek,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toTimeBlockDTO(b))
}

func (s *Server) deleteTimeBlock(c *gin.Context) {
	if err := s.svc.DeleteTimeBlock(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

type createInvestmentRequest struct {
	ObjectiveID   *string  `json:"objectiveId"`
	SkillID       *string  `json:"skillId"`
	Title         string   `json:"title" binding:"required"`
	Type          string   `json:"type"`
	Amount        *float64 `json:"amount"`
	EstimatedTime string   `json:"estimatedTime"`
	URL           string   `json:"url"`
	Status        string   `json:"status"`
}

func (s *Server) listInvestments(c *gin.Context) {
	invs, err := s.svc.ListInvestments(c.Request.Context(), userID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(invs, toInvestmentDTO))
}

func (s *Server) createInvestment(c *gin.Context) {
	var req createInvestmentRequest
	if !bind(c, &req) {
		return
	}
	inv, err := s.svc.CreateInvestment(c.Request.Context(), engine.CreateInvestmentInput{
		UserID:        userID(c),
		ObjectiveID:   req.ObjectiveID,
		SkillID:       req.SkillID,
		Title:         req.Title,
		Type:          req.Type,
		Amount:        req.Amount,
		EstimatedTime: req.EstimatedTime,
		URL:           req.URL,
		Status:        req.Status,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, toInvestmentDTO(inv))
}

func (s *Server) deleteInvestment(c *gin.Context) {
	if err := s.svc.DeleteInvestment(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
