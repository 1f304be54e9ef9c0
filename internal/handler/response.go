package handler

import (
	"errors"
	"net/http"
	"strconv"

	"gemstore_server/internal/infrastructure/middleware"
	"gemstore_server/internal/model"
	"gemstore_server/pkg/errorx"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ResponseData 统一响应结构体
type ResponseData struct {
	Code int `json:"code"` // 业务响应状态码
	Msg  any `json:"msg"`  // 提示信息
	Data any `json:"data"` // 数据
}

// HandleSuccess 返回成功响应
func HandleSuccess(c *gin.Context, data any) {
	writeResponse(c, http.StatusOK, errorx.CodeSuccess, "success", data)
}

// HandleCreated 返回 201，用于新建资源
func HandleCreated(c *gin.Context, data any) {
	writeResponse(c, http.StatusCreated, errorx.CodeSuccess, "success", data)
}

func writeResponse(c *gin.Context, status, code int, msg, data any) {
	c.JSON(status, ResponseData{Code: code, Msg: msg, Data: data})
}

// HandleError 通用错误处理方法
// 业务错误按错误码映射 HTTP 状态；系统错误记录日志并返回服务繁忙
//
//	if err := svc.DoSomething(); err != nil {
//	    HandleError(c, err)
//	    return
//	}
func HandleError(c *gin.Context, err error) {
	status := errorx.HTTPStatus(err)
	code := errorx.GetCode(err)

	var codeErr *errorx.CodeError
	if !errors.As(err, &codeErr) || status >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
		code = errorx.CodeServerBusy
	}
	writeResponse(c, status, code, errorx.Message(err), nil)
}

// HandleParamError 处理参数绑定错误（带 validator 翻译支持）
func HandleParamError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && Trans != nil {
		writeResponse(c, http.StatusBadRequest, errorx.ErrInvalidParam.Code, RemoveTopStruct(validationErrs.Translate(Trans)), nil)
		return
	}

	// 非 validator 错误（如 JSON 格式错误）
	zap.L().Debug("param bind error", zap.Error(err))
	writeResponse(c, http.StatusBadRequest, errorx.ErrInvalidParam.Code, errorx.ErrInvalidParam.Msg, nil)
}

// uintParam 解析路径参数为正整数
func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		HandleError(c, errorx.Newf(errorx.CodeInvalidParam, "%s: 必须是正整数", name))
		return 0, false
	}
	return uint(v), true
}

// actor 当前登录身份，路由已挂载 JWTAuth
func actor(c *gin.Context) *model.Actor {
	return middleware.CurrentActor(c)
}
