package ecs

import "reflect"

// EntityID 是实体的唯一标识符，0 保留为无效ID
type EntityID uint64

// EntityManager 管理所有实体和组件
//
// 转盘场景中一个转盘就是一个实体：状态、指针、视觉句柄分别挂在不同组件上，
// 系统通过泛型查询函数读写这些组件。
type EntityManager struct {
	nextID uint64
	// 实体-组件映射: EntityID -> ComponentType -> Component实例
	components map[EntityID]map[reflect.Type]any
	// 待删除的实体ID列表
	entitiesToDestroy []EntityID
}

// NewEntityManager 创建一个新的 EntityManager 实例
func NewEntityManager() *EntityManager {
	return &EntityManager{
		nextID:     1,
		components: make(map[EntityID]map[reflect.Type]any),
	}
}

// CreateEntity 创建新实体并返回唯一ID
func (em *EntityManager) CreateEntity() EntityID {
	id := EntityID(em.nextID)
	em.nextID++
	em.components[id] = make(map[reflect.Type]any)
	return id
}

// EntityExists 检查实体是否存在（已标记删除但未清理的实体仍视为存在）
func (em *EntityManager) EntityExists(id EntityID) bool {
	_, ok := em.components[id]
	return ok
}

// DestroyEntity 标记实体待删除(不立即删除)
func (em *EntityManager) DestroyEntity(id EntityID) {
	em.entitiesToDestroy = append(em.entitiesToDestroy, id)
}

// RemoveMarkedEntities 清理所有标记删除的实体
func (em *EntityManager) RemoveMarkedEntities() {
	for _, id := range em.entitiesToDestroy {
		delete(em.components, id)
	}
	em.entitiesToDestroy = em.entitiesToDestroy[:0]
}

// addComponent 按组件的动态类型存储
func (em *EntityManager) addComponent(id EntityID, component any) bool {
	compMap, exists := em.components[id]
	if !exists {
		return false
	}
	compMap[reflect.TypeOf(component)] = component
	return true
}

// AddComponent 为实体添加组件，同类型组件会被替换
// 实体不存在时返回 false
func AddComponent[T any](em *EntityManager, id EntityID, component T) bool {
	return em.addComponent(id, component)
}

// GetComponent 获取实体的 T 类型组件
func GetComponent[T any](em *EntityManager, id EntityID) (T, bool) {
	var zero T
	compMap, exists := em.components[id]
	if !exists {
		return zero, false
	}
	comp, found := compMap[reflect.TypeFor[T]()]
	if !found {
		return zero, false
	}
	typed, ok := comp.(T)
	return typed, ok
}

// HasComponent 检查实体是否拥有 T 类型组件
func HasComponent[T any](em *EntityManager, id EntityID) bool {
	compMap, exists := em.components[id]
	if !exists {
		return false
	}
	_, found := compMap[reflect.TypeFor[T]()]
	return found
}

// RemoveComponent 从实体移除 T 类型组件
func RemoveComponent[T any](em *EntityManager, id EntityID) {
	if compMap, exists := em.components[id]; exists {
		delete(compMap, reflect.TypeFor[T]())
	}
}

// GetEntitiesWith 查询拥有 T 类型组件的所有实体
func GetEntitiesWith[T any](em *EntityManager) []EntityID {
	t := reflect.TypeFor[T]()
	result := make([]EntityID, 0)
	for id, compMap := range em.components {
		if _, found := compMap[t]; found {
			result = append(result, id)
		}
	}
	return result
}
