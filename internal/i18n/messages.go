package i18n

var messages = map[string]map[string]string{
	LocaleES: {
		"error.bad_request":              "Solicitud inválida",
		"error.unauthorized":             "No autenticado",
		"error.forbidden":                "Sin permisos para esta operación",
		"error.too_many_requests":        "Demasiadas solicitudes, intente más tarde",
		"error.internal":                 "Error interno del servidor",
		"error.fulfillment_invalid":      "Datos del cumplido inválidos",
		"error.fulfillment_not_found":    "Cumplido no encontrado",
		"error.fulfillment_store_failed": "Error al guardar el cumplido",
		"error.shift_conflict":           "El trabajador ya tiene el turno %s en este puesto y fecha, debe liberarlo primero",
		"error.evidence_locked":          "El cumplido tiene archivos adjuntos; solicite la eliminación manual al administrador",
		"error.evidence_unverifiable":    "No fue posible verificar la evidencia, intente más tarde",
		"error.slot_busy":                "El turno está siendo modificado, intente nuevamente",
		"error.note_invalid":             "Novedad inválida",
		"error.note_not_found":           "Novedad no encontrada",
		"error.score_sheet_invalid":      "Planilla de calificación inválida",
		"error.scoring_config_invalid":   "Configuración de calificación inválida",
		"error.scoring_config_not_found": "No hay configuración vigente para la fecha",
		"error.queue_unavailable":        "La cola asíncrona no está habilitada",
		"error.view_invalid":             "Parámetros de consulta inválidos",
		"error.business_not_found":       "Negocio no encontrado",
		"error.token_invalid":            "Token inválido o vencido",
		"error.auth_header_missing":      "Falta el encabezado Authorization",
		"error.rate_limited":             "Demasiadas solicitudes, reintente en %d segundos",
		"error.authz_invalid":            "Parámetros de permisos inválidos",
		"error.rate_limit_unavailable":   "Límite de solicitudes no disponible, intente más tarde",
	},
	LocaleEN: {
		"error.bad_request":              "Bad request",
		"error.unauthorized":             "Unauthorized",
		"error.forbidden":                "Forbidden",
		"error.too_many_requests":        "Too many requests, please retry later",
		"error.internal":                 "Internal server error",
		"error.fulfillment_invalid":      "Invalid fulfillment data",
		"error.fulfillment_not_found":    "Fulfillment not found",
		"error.fulfillment_store_failed": "Failed to store fulfillment",
		"error.shift_conflict":           "Worker already holds the %s shift on this position and date, release it first",
		"error.evidence_locked":          "Fulfillment has media attachments; request manual deletion from an administrator",
		"error.evidence_unverifiable":    "Evidence could not be verified, please retry later",
		"error.slot_busy":                "Shift slot is being modified, please retry",
		"error.note_invalid":             "Invalid note",
		"error.note_not_found":           "Note not found",
		"error.score_sheet_invalid":      "Invalid score sheet",
		"error.scoring_config_invalid":   "Invalid scoring configuration",
		"error.scoring_config_not_found": "No scoring configuration in force for the date",
		"error.queue_unavailable":        "Async queue is not enabled",
		"error.view_invalid":             "Invalid query parameters",
		"error.business_not_found":       "Business not found",
		"error.token_invalid":            "Invalid or expired token",
		"error.auth_header_missing":      "Missing Authorization header",
		"error.rate_limited":             "Too many requests, retry in %d seconds",
		"error.authz_invalid":            "Invalid authorization parameters",
		"error.rate_limit_unavailable":   "Rate limiter unavailable, please retry later",
	},
	LocaleZH: {
		"error.bad_request":              "请求参数错误",
		"error.unauthorized":             "未登录",
		"error.forbidden":                "无权执行该操作",
		"error.too_many_requests":        "请求过于频繁，请稍后再试",
		"error.internal":                 "服务器内部错误",
		"error.fulfillment_invalid":      "履职记录参数无效",
		"error.fulfillment_not_found":    "履职记录不存在",
		"error.fulfillment_store_failed": "履职记录保存失败",
		"error.shift_conflict":           "该人员已在同岗位同日期担任%s班次，请先释放",
		"error.evidence_locked":          "履职记录存在附件，请联系管理员人工删除",
		"error.evidence_unverifiable":    "证据核验暂不可用，请稍后再试",
		"error.slot_busy":                "班次正在被修改，请重试",
		"error.note_invalid":             "备注参数无效",
		"error.note_not_found":           "备注不存在",
		"error.score_sheet_invalid":      "评分表参数无效",
		"error.scoring_config_invalid":   "评分配置参数无效",
		"error.scoring_config_not_found": "该日期没有生效的评分配置",
		"error.queue_unavailable":        "异步队列未启用",
		"error.view_invalid":             "查询参数无效",
		"error.business_not_found":       "业务不存在",
		"error.token_invalid":            "令牌无效或已过期",
		"error.auth_header_missing":      "缺少 Authorization 请求头",
		"error.rate_limited":             "请求过于频繁，请 %d 秒后重试",
		"error.authz_invalid":            "权限参数无效",
		"error.rate_limit_unavailable":   "限流服务暂不可用，请稍后再试",
	},
}
