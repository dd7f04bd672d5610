package order

import (
	"time"
)

// Status 订单状态
// 教学要点:
// 1. 使用int类型而非string(节省存储空间,便于索引)
// 2. 状态值1-5递增,非取消路径上的流转严格单调递增
// 3. Delivered和Cancelled是终态,没有任何出边
type Status int

const (
	StatusProcessing Status = 1 // 处理中(下单后的初始状态)
	StatusConfirmed  Status = 2 // 已确认
	StatusShipping   Status = 3 // 配送中
	StatusDelivered  Status = 4 // 已送达(终态)
	StatusCancelled  Status = 5 // 已取消(终态)
)

// String 实现Stringer接口(方便日志输出)
func (s Status) String() string {
	switch s {
	case StatusProcessing:
		return "处理中"
	case StatusConfirmed:
		return "已确认"
	case StatusShipping:
		return "配送中"
	case StatusDelivered:
		return "已送达"
	case StatusCancelled:
		return "已取消"
	default:
		return "未知状态"
	}
}

// IsTerminal 是否为终态
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Valid 是否为已定义的状态值
func (s Status) Valid() bool {
	return s >= StatusProcessing && s <= StatusCancelled
}

// ShippingAddress 收货信息(值对象)
// Address/City/Phone三项全部必填,在任何副作用发生前校验
type ShippingAddress struct {
	Address string
	City    string
	Phone   string
}

// Complete 收货信息是否完整
func (a ShippingAddress) Complete() bool {
	return a.Address != "" && a.City != "" && a.Phone != ""
}

// PaymentMethodCOD 货到付款(未指定支付方式时的默认值)
const PaymentMethodCOD = "COD"

// Order 订单实体(聚合根)
// 教学要点:
// 1. Order是聚合根,OrderItem是子实体
// 2. Items是下单时刻购物车的值快照,创建后不再从商品目录重读
// 3. TotalPrice冗余存储(避免重复计算,防止改价影响历史订单)
// 4. 订单永不删除,作为审计记录保留
type Order struct {
	ID            uint
	OrderNo       string // 订单号(业务主键,全局唯一)
	CustomerID    uint   // 买家客户ID
	Items         []Item // 订单明细(聚合内的子实体,创建后不可变)
	Shipping      ShippingAddress
	PaymentMethod string // 支付方式,默认COD
	TotalPrice    int64  // 订单总金额(分)
	Status        Status
	IsPaid        bool
	PaidAt        *time.Time
	IsDelivered   bool
	DeliveredAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Item 订单明细项
// 教学要点:
// 1. 不是独立聚合根,必须通过Order访问
// 2. Name/Image/Price是下单时刻的快照,防止商家改价后历史订单变化
// 3. 不直接关联Product对象,只保存ProductID(避免跨聚合引用)
type Item struct {
	ID        uint
	OrderID   uint   // 所属订单ID
	ProductID uint   // 商品ID
	Name      string // 商品名称快照
	Image     string // 商品图片快照
	Quantity  int    // 购买数量
	Price     int64  // 下单时的单价(分)
}

// NewOrder 创建新订单(工厂方法)
// 教学要点:
// 1. 工厂方法封装创建逻辑,保证实体的有效性
// 2. 初始状态固定为Processing,未支付,未送达
// 3. 支付方式为空时默认货到付款
func NewOrder(orderNo string, customerID uint, items []Item, shipping ShippingAddress, paymentMethod string, totalPrice int64) *Order {
	if paymentMethod == "" {
		paymentMethod = PaymentMethodCOD
	}
	now := time.Now()
	return &Order{
		OrderNo:       orderNo,
		CustomerID:    customerID,
		Items:         items,
		Shipping:      shipping,
		PaymentMethod: paymentMethod,
		TotalPrice:    totalPrice,
		Status:        StatusProcessing,
		IsPaid:        false,
		IsDelivered:   false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// CanTransitionTo 检查是否可以转换到目标状态
// 状态机规则:
// 1. 终态(已送达/已取消)没有任何出边
// 2. 取消可以从任何非终态进入
// 3. 其余流转必须单调向前(允许跳步,如处理中→配送中,不允许回退)
func (o *Order) CanTransitionTo(target Status) bool {
	if !target.Valid() {
		return false
	}
	if o.Status.IsTerminal() {
		return false
	}
	if target == StatusCancelled {
		return true
	}
	return target > o.Status
}

// TransitionTo 状态转换
// 教学要点:
// 1. 先检查是否可以转换(业务规则校验)
// 2. 进入Delivered时同步更新送达标志和时间戳
// 3. 转换成功更新UpdatedAt(审计追踪)
func (o *Order) TransitionTo(target Status) error {
	if !o.CanTransitionTo(target) {
		if o.Status.IsTerminal() {
			return ErrOrderTerminal
		}
		return ErrInvalidStatusTransition
	}

	now := time.Now()
	o.Status = target
	if target == StatusDelivered {
		o.IsDelivered = true
		o.DeliveredAt = &now
	}
	o.UpdatedAt = now
	return nil
}

// Deliver 送达订单(领域行为,管理员操作)
func (o *Order) Deliver() error {
	return o.TransitionTo(StatusDelivered)
}

// Cancel 取消订单(领域行为)
// 业务规则:
// 1. 已送达的订单不可取消(货已到手)
// 2. 已取消的订单不可重复取消(防止库存二次归还)
func (o *Order) Cancel() error {
	if o.IsDelivered || o.Status == StatusDelivered {
		return ErrOrderDelivered
	}
	if o.Status == StatusCancelled {
		return ErrOrderCancelled
	}
	return o.TransitionTo(StatusCancelled)
}

// MarkPaid 标记已支付
func (o *Order) MarkPaid() {
	if o.IsPaid {
		return
	}
	now := time.Now()
	o.IsPaid = true
	o.PaidAt = &now
	o.UpdatedAt = now
}

// CalculateTotal 计算订单明细总金额
// 用于创建订单时验证前端传递的totalPrice是否一致
func (o *Order) CalculateTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

// IsOwnedBy 检查订单是否属于指定客户
// 教学要点:权限校验,防止客户访问他人订单
func (o *Order) IsOwnedBy(customerID uint) bool {
	return o.CustomerID == customerID
}
