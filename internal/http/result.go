package httpapi

// QueryResult 读接口的返回结构：{ data, error }
type QueryResult[T any] struct {
	Data  T       `json:"data"`
	Error *string `json:"error"`
}

// ActionResult 写接口的返回结构：{ success, error, data }
type ActionResult[T any] struct {
	Success bool    `json:"success"`
	Error   *string `json:"error"`
	Data    T       `json:"data"`
}

func Query[T any](data T) QueryResult[T] {
	return QueryResult[T]{Data: data}
}

func QueryFail(message string) QueryResult[any] {
	return QueryResult[any]{Error: &message}
}

func Action[T any](data T) ActionResult[T] {
	return ActionResult[T]{Success: true, Data: data}
}

func ActionFail(message string) ActionResult[any] {
	return ActionResult[any]{Success: false, Error: &message}
}
